package rolepermission

import (
	"fmt"

	"github.com/jinzhu/copier"
)

func ToEntity(dto RolePermissionDTO) (RolePermission, error) {
	var entity RolePermission
	if err := copier.Copy(&entity, &dto); err != nil {
		return RolePermission{}, fmt.Errorf("failed to map role permission: %w", err)
	}
	return entity, nil
}

func ToDTO(entity RolePermission) RolePermissionDTO {
	var dto RolePermissionDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("rolepermission: map entity to dto: %v", err))
	}
	return dto
}

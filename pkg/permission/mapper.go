package permission

import (
	"fmt"

	"github.com/jinzhu/copier"
)

func ToEntity(dto PermissionDTO) (Permission, error) {
	var entity Permission
	if err := copier.Copy(&entity, &dto); err != nil {
		return Permission{}, fmt.Errorf("failed to map permission: %w", err)
	}
	return entity, nil
}

func ToDTO(entity Permission) PermissionDTO {
	var dto PermissionDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("permission: map entity to dto: %v", err))
	}
	return dto
}

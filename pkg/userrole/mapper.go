package userrole

import (
	"fmt"

	"github.com/jinzhu/copier"
)

func ToEntity(dto UserRoleDTO) (UserRole, error) {
	var entity UserRole
	if err := copier.Copy(&entity, &dto); err != nil {
		return UserRole{}, fmt.Errorf("failed to map user role: %w", err)
	}
	entity.AssignedAt = entity.AssignedAt.UTC()
	return entity, nil
}

func ToDTO(entity UserRole) UserRoleDTO {
	var dto UserRoleDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("userrole: map entity to dto: %v", err))
	}
	return dto
}

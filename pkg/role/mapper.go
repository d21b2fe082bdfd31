package role

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// ToEntity copies a DTO onto a new Role.
func ToEntity(dto RoleDTO) (Role, error) {
	var entity Role
	if err := copier.Copy(&entity, &dto); err != nil {
		return Role{}, fmt.Errorf("failed to map role: %w", err)
	}
	entity.IsAssignable = dto.IsAssignable != nil && *dto.IsAssignable
	return entity, nil
}

// ToDTO copies a Role onto its wire representation.
func ToDTO(entity Role) RoleDTO {
	var dto RoleDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("role: map entity to dto: %v", err))
	}
	assignable := entity.IsAssignable
	dto.IsAssignable = &assignable
	return dto
}

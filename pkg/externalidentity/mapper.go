package externalidentity

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// ToEntity maps a DTO onto an ExternalIdentity. A nil LinkedAt leaves the
// zero time, which the repositories replace with the insert time.
func ToEntity(dto ExternalIdentityDTO) (ExternalIdentity, error) {
	var entity ExternalIdentity
	if err := copier.Copy(&entity, &dto); err != nil {
		return ExternalIdentity{}, fmt.Errorf("failed to map external identity: %w", err)
	}
	entity.IsPrimary = dto.IsPrimary != nil && *dto.IsPrimary
	if dto.LinkedAt != nil {
		entity.LinkedAt = dto.LinkedAt.UTC()
	}
	return entity, nil
}

func ToDTO(entity ExternalIdentity) ExternalIdentityDTO {
	var dto ExternalIdentityDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("externalidentity: map entity to dto: %v", err))
	}
	primary := entity.IsPrimary
	dto.IsPrimary = &primary
	linkedAt := entity.LinkedAt
	dto.LinkedAt = &linkedAt
	return dto
}

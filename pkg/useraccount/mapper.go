package useraccount

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
)

// ToEntity maps a DTO onto a UserAccount. Emails are stored lower case so
// the unique constraint is case insensitive.
func ToEntity(dto UserAccountDTO) (UserAccount, error) {
	var entity UserAccount
	if err := copier.Copy(&entity, &dto); err != nil {
		return UserAccount{}, fmt.Errorf("failed to map user account: %w", err)
	}
	entity.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	entity.IsActive = dto.IsActive != nil && *dto.IsActive
	return entity, nil
}

func ToDTO(entity UserAccount) UserAccountDTO {
	var dto UserAccountDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("useraccount: map entity to dto: %v", err))
	}
	active := entity.IsActive
	dto.IsActive = &active
	return dto
}

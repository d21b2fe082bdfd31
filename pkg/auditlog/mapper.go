package auditlog

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

func ToEntity(dto AuditLogDTO) (AuditLog, error) {
	var entity AuditLog
	if err := copier.Copy(&entity, &dto); err != nil {
		return AuditLog{}, fmt.Errorf("failed to map audit log: %w", err)
	}
	if len(dto.Metadata) > 0 && !json.Valid(dto.Metadata) {
		return AuditLog{}, idmerrors.InvalidInput("metadata", "must be valid JSON")
	}
	entity.Timestamp = entity.Timestamp.UTC()
	return entity, nil
}

func ToDTO(entity AuditLog) AuditLogDTO {
	var dto AuditLogDTO
	// Copy only fails on nil or unaddressable arguments.
	if err := copier.Copy(&dto, &entity); err != nil {
		panic(fmt.Sprintf("auditlog: map entity to dto: %v", err))
	}
	return dto
}

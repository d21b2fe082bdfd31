package auditlog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// AuditLogRepository defines the interface for audit log data access.
// The finders page their results because audit trails grow without bound.
type AuditLogRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[AuditLog], error)
	Create(ctx context.Context, entry AuditLog) (AuditLog, error)
	Update(ctx context.Context, entry AuditLog) (AuditLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (AuditLog, error)

	FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID, q filter.Query) (filter.Page[AuditLog], error)
	FindByAction(ctx context.Context, action string, q filter.Query) (filter.Page[AuditLog], error)
	FindByResource(ctx context.Context, resource, resourceID string, q filter.Query) (filter.Page[AuditLog], error)
}

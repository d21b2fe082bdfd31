package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	auditLogTable   = "audit_logs"
	auditLogColumns = `id, user_account_id, action, resource, resource_id, metadata, ip_address, "timestamp"`
)

// PostgresAuditLogRepository implements AuditLogRepository using PostgreSQL
type PostgresAuditLogRepository struct {
	db database.DBTX
}

func NewPostgresAuditLogRepository(db database.DBTX) *PostgresAuditLogRepository {
	return &PostgresAuditLogRepository{db: db}
}

func (r *PostgresAuditLogRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[AuditLog], error) {
	return database.FindPage[AuditLog](ctx, r.db, auditLogTable, auditLogColumns, q)
}

func (r *PostgresAuditLogRepository) Create(ctx context.Context, a AuditLog) (AuditLog, error) {
	query := `
		INSERT INTO audit_logs (user_account_id, action, resource, resource_id, metadata, ip_address, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + auditLogColumns

	created, err := database.CollectOne[AuditLog](ctx, r.db, query,
		a.UserAccountID, a.Action, a.Resource, a.ResourceID, a.Metadata, a.IPAddress, a.Timestamp)
	if err != nil {
		return AuditLog{}, fmt.Errorf("failed to create audit log: %w", database.Translate(err, "audit log"))
	}
	return created, nil
}

func (r *PostgresAuditLogRepository) Update(ctx context.Context, a AuditLog) (AuditLog, error) {
	query := `
		UPDATE audit_logs
		SET user_account_id = $2, action = $3, resource = $4, resource_id = $5,
			metadata = $6, ip_address = $7, "timestamp" = $8
		WHERE id = $1
		RETURNING ` + auditLogColumns

	updated, err := database.CollectOne[AuditLog](ctx, r.db, query,
		a.ID, a.UserAccountID, a.Action, a.Resource, a.ResourceID, a.Metadata, a.IPAddress, a.Timestamp)
	if err != nil {
		if database.IsNoRows(err) {
			return AuditLog{}, ErrAuditLogNotFound
		}
		return AuditLog{}, fmt.Errorf("failed to update audit log: %w", database.Translate(err, "audit log"))
	}
	return updated, nil
}

func (r *PostgresAuditLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM audit_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete audit log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAuditLogNotFound
	}
	return nil
}

func (r *PostgresAuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (AuditLog, error) {
	query := "SELECT " + auditLogColumns + " FROM audit_logs WHERE id = $1"
	a, err := database.CollectOne[AuditLog](ctx, r.db, query, id)
	if err != nil {
		if database.IsNoRows(err) {
			return AuditLog{}, ErrAuditLogNotFound
		}
		return AuditLog{}, fmt.Errorf("failed to get audit log: %w", err)
	}
	return a, nil
}

func (r *PostgresAuditLogRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("user_account_id", userAccountID))
}

func (r *PostgresAuditLogRepository) FindByAction(ctx context.Context, action string, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("action", action))
}

func (r *PostgresAuditLogRepository) FindByResource(ctx context.Context, resource, resourceID string, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("resource", resource).Where("resource_id", resourceID))
}

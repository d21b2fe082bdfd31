package permission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	permissionTable   = "permissions"
	permissionColumns = "id, name, description, domain, created_at, created_by, updated_at, updated_by"
)

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	db database.DBTX
}

func NewPostgresPermissionRepository(db database.DBTX) *PostgresPermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

func (r *PostgresPermissionRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[Permission], error) {
	return database.FindPage[Permission](ctx, r.db, permissionTable, permissionColumns, q)
}

func (r *PostgresPermissionRepository) Create(ctx context.Context, p Permission) (Permission, error) {
	query := `
		INSERT INTO permissions (name, description, domain, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + permissionColumns

	created, err := database.CollectOne[Permission](ctx, r.db, query,
		p.Name, p.Description, p.Domain, p.CreatedBy, p.UpdatedBy)
	if err != nil {
		return Permission{}, fmt.Errorf("failed to create permission: %w", database.Translate(err, "permission"))
	}
	return created, nil
}

func (r *PostgresPermissionRepository) Update(ctx context.Context, p Permission) (Permission, error) {
	query := `
		UPDATE permissions
		SET name = $2, description = $3, domain = $4, updated_by = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + permissionColumns

	updated, err := database.CollectOne[Permission](ctx, r.db, query,
		p.ID, p.Name, p.Description, p.Domain, p.UpdatedBy)
	if err != nil {
		if database.IsNoRows(err) {
			return Permission{}, ErrPermissionNotFound
		}
		return Permission{}, fmt.Errorf("failed to update permission: %w", database.Translate(err, "permission"))
	}
	return updated, nil
}

func (r *PostgresPermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", database.Translate(err, "permission"))
	}
	if tag.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

func (r *PostgresPermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (Permission, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresPermissionRepository) FindByName(ctx context.Context, name string) (Permission, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *PostgresPermissionRepository) FindByDomain(ctx context.Context, domain string) ([]Permission, error) {
	query := "SELECT " + permissionColumns + " FROM permissions WHERE domain = $1 ORDER BY name"
	permissions, err := database.CollectAll[Permission](ctx, r.db, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	return permissions, nil
}

func (r *PostgresPermissionRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM permissions WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check permission name: %w", err)
	}
	return exists, nil
}

func (r *PostgresPermissionRepository) findOne(ctx context.Context, where string, args ...interface{}) (Permission, error) {
	query := "SELECT " + permissionColumns + " FROM permissions WHERE " + where
	p, err := database.CollectOne[Permission](ctx, r.db, query, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return Permission{}, ErrPermissionNotFound
		}
		return Permission{}, fmt.Errorf("failed to get permission: %w", err)
	}
	return p, nil
}

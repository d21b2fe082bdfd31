package rolepermission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	rolePermissionTable   = "role_permissions"
	rolePermissionColumns = "id, role_id, permission_id, created_at, created_by, updated_at, updated_by"
)

// PostgresRolePermissionRepository implements RolePermissionRepository using PostgreSQL
type PostgresRolePermissionRepository struct {
	db database.DBTX
}

func NewPostgresRolePermissionRepository(db database.DBTX) *PostgresRolePermissionRepository {
	return &PostgresRolePermissionRepository{db: db}
}

func (r *PostgresRolePermissionRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[RolePermission], error) {
	return database.FindPage[RolePermission](ctx, r.db, rolePermissionTable, rolePermissionColumns, q)
}

func (r *PostgresRolePermissionRepository) Create(ctx context.Context, rp RolePermission) (RolePermission, error) {
	query := `
		INSERT INTO role_permissions (role_id, permission_id, created_by, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + rolePermissionColumns

	created, err := database.CollectOne[RolePermission](ctx, r.db, query,
		rp.RoleID, rp.PermissionID, rp.CreatedBy, rp.UpdatedBy)
	if err != nil {
		return RolePermission{}, fmt.Errorf("failed to create role permission: %w", database.Translate(err, "role permission"))
	}
	return created, nil
}

func (r *PostgresRolePermissionRepository) Update(ctx context.Context, rp RolePermission) (RolePermission, error) {
	query := `
		UPDATE role_permissions
		SET role_id = $2, permission_id = $3, updated_by = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + rolePermissionColumns

	updated, err := database.CollectOne[RolePermission](ctx, r.db, query,
		rp.ID, rp.RoleID, rp.PermissionID, rp.UpdatedBy)
	if err != nil {
		if database.IsNoRows(err) {
			return RolePermission{}, ErrRolePermissionNotFound
		}
		return RolePermission{}, fmt.Errorf("failed to update role permission: %w", database.Translate(err, "role permission"))
	}
	return updated, nil
}

func (r *PostgresRolePermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `DELETE FROM role_permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRolePermissionNotFound
	}
	return nil
}

func (r *PostgresRolePermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (RolePermission, error) {
	query := "SELECT " + rolePermissionColumns + " FROM role_permissions WHERE id = $1"
	rp, err := database.CollectOne[RolePermission](ctx, r.db, query, id)
	if err != nil {
		if database.IsNoRows(err) {
			return RolePermission{}, ErrRolePermissionNotFound
		}
		return RolePermission{}, fmt.Errorf("failed to get role permission: %w", err)
	}
	return rp, nil
}

func (r *PostgresRolePermissionRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]RolePermission, error) {
	return r.findAll(ctx, "role_id = $1", roleID)
}

func (r *PostgresRolePermissionRepository) FindByPermissionID(ctx context.Context, permissionID uuid.UUID) ([]RolePermission, error) {
	return r.findAll(ctx, "permission_id = $1", permissionID)
}

func (r *PostgresRolePermissionRepository) FindByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (RolePermission, error) {
	query := "SELECT " + rolePermissionColumns + " FROM role_permissions WHERE role_id = $1 AND permission_id = $2"
	rp, err := database.CollectOne[RolePermission](ctx, r.db, query, roleID, permissionID)
	if err != nil {
		if database.IsNoRows(err) {
			return RolePermission{}, ErrRolePermissionNotFound
		}
		return RolePermission{}, fmt.Errorf("failed to get role permission: %w", err)
	}
	return rp, nil
}

func (r *PostgresRolePermissionRepository) DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID)
}

func (r *PostgresRolePermissionRepository) DeleteByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
}

func (r *PostgresRolePermissionRepository) findAll(ctx context.Context, where string, args ...interface{}) ([]RolePermission, error) {
	query := "SELECT " + rolePermissionColumns + " FROM role_permissions WHERE " + where + " ORDER BY created_at, id"
	rps, err := database.CollectAll[RolePermission](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find role permissions: %w", err)
	}
	return rps, nil
}

func (r *PostgresRolePermissionRepository) exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete role permissions: %w", database.Translate(err, "role permission"))
	}
	return tag.RowsAffected(), nil
}

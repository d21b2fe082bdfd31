package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	roleTable   = "roles"
	roleColumns = "id, name, description, is_assignable, scope_type, created_at, created_by, updated_at, updated_by"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db database.DBTX
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db database.DBTX) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[Role], error) {
	return database.FindPage[Role](ctx, r.db, roleTable, roleColumns, q)
}

func (r *PostgresRoleRepository) Create(ctx context.Context, role Role) (Role, error) {
	query := `
		INSERT INTO roles (name, description, is_assignable, scope_type, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + roleColumns

	created, err := database.CollectOne[Role](ctx, r.db, query,
		role.Name,
		role.Description,
		role.IsAssignable,
		role.ScopeType,
		role.CreatedBy,
		role.UpdatedBy,
	)
	if err != nil {
		return Role{}, fmt.Errorf("failed to create role: %w", database.Translate(err, "role"))
	}
	return created, nil
}

func (r *PostgresRoleRepository) Update(ctx context.Context, role Role) (Role, error) {
	query := `
		UPDATE roles
		SET name = $2, description = $3, is_assignable = $4, scope_type = $5,
			updated_by = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + roleColumns

	updated, err := database.CollectOne[Role](ctx, r.db, query,
		role.ID,
		role.Name,
		role.Description,
		role.IsAssignable,
		role.ScopeType,
		role.UpdatedBy,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to update role: %w", database.Translate(err, "role"))
	}
	return updated, nil
}

func (r *PostgresRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", database.Translate(err, "role"))
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *PostgresRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (Role, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresRoleRepository) FindByName(ctx context.Context, name string) (Role, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *PostgresRoleRepository) FindByIsAssignable(ctx context.Context, isAssignable bool) ([]Role, error) {
	return r.findAll(ctx, "is_assignable = $1", isAssignable)
}

func (r *PostgresRoleRepository) FindByScopeType(ctx context.Context, scopeType ScopeType) ([]Role, error) {
	return r.findAll(ctx, "scope_type = $1", scopeType)
}

func (r *PostgresRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role name: %w", err)
	}
	return exists, nil
}

func (r *PostgresRoleRepository) findOne(ctx context.Context, where string, args ...interface{}) (Role, error) {
	query := "SELECT " + roleColumns + " FROM roles WHERE " + where
	role, err := database.CollectOne[Role](ctx, r.db, query, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

func (r *PostgresRoleRepository) findAll(ctx context.Context, where string, args ...interface{}) ([]Role, error) {
	query := "SELECT " + roleColumns + " FROM roles WHERE " + where + " ORDER BY name"
	roles, err := database.CollectAll[Role](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	return roles, nil
}

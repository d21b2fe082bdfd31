package userrole

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	userRoleTable   = "user_roles"
	userRoleColumns = `id, user_account_id, role_id, branch_id, distributor_id, assigned_at, assigned_by,
		created_at, created_by, updated_at, updated_by`
)

// PostgresUserRoleRepository implements UserRoleRepository using PostgreSQL
type PostgresUserRoleRepository struct {
	db database.DBTX
}

func NewPostgresUserRoleRepository(db database.DBTX) *PostgresUserRoleRepository {
	return &PostgresUserRoleRepository{db: db}
}

func (r *PostgresUserRoleRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[UserRole], error) {
	return database.FindPage[UserRole](ctx, r.db, userRoleTable, userRoleColumns, q)
}

func (r *PostgresUserRoleRepository) Create(ctx context.Context, ur UserRole) (UserRole, error) {
	query := `
		INSERT INTO user_roles (user_account_id, role_id, branch_id, distributor_id, assigned_at, assigned_by, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userRoleColumns

	created, err := database.CollectOne[UserRole](ctx, r.db, query,
		ur.UserAccountID, ur.RoleID, ur.BranchID, ur.DistributorID, ur.AssignedAt, ur.AssignedBy, ur.CreatedBy, ur.UpdatedBy)
	if err != nil {
		return UserRole{}, fmt.Errorf("failed to create user role: %w", database.Translate(err, "user role"))
	}
	return created, nil
}

func (r *PostgresUserRoleRepository) Update(ctx context.Context, ur UserRole) (UserRole, error) {
	query := `
		UPDATE user_roles
		SET user_account_id = $2, role_id = $3, branch_id = $4, distributor_id = $5,
			assigned_at = $6, assigned_by = $7, updated_by = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + userRoleColumns

	updated, err := database.CollectOne[UserRole](ctx, r.db, query,
		ur.ID, ur.UserAccountID, ur.RoleID, ur.BranchID, ur.DistributorID, ur.AssignedAt, ur.AssignedBy, ur.UpdatedBy)
	if err != nil {
		if database.IsNoRows(err) {
			return UserRole{}, ErrUserRoleNotFound
		}
		return UserRole{}, fmt.Errorf("failed to update user role: %w", database.Translate(err, "user role"))
	}
	return updated, nil
}

func (r *PostgresUserRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `DELETE FROM user_roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserRoleNotFound
	}
	return nil
}

func (r *PostgresUserRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (UserRole, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresUserRoleRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]UserRole, error) {
	return r.findAll(ctx, "user_account_id = $1", userAccountID)
}

func (r *PostgresUserRoleRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]UserRole, error) {
	return r.findAll(ctx, "role_id = $1", roleID)
}

func (r *PostgresUserRoleRepository) FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserRole, error) {
	return r.findAll(ctx, "branch_id = $1", branchID)
}

func (r *PostgresUserRoleRepository) FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserRole, error) {
	return r.findAll(ctx, "distributor_id = $1", distributorID)
}

func (r *PostgresUserRoleRepository) FindByAssignment(ctx context.Context, userAccountID, roleID uuid.UUID, branchID, distributorID *uuid.UUID) (UserRole, error) {
	return r.findOne(ctx, `user_account_id = $1 AND role_id = $2
		AND branch_id IS NOT DISTINCT FROM $3::uuid AND distributor_id IS NOT DISTINCT FROM $4::uuid
		ORDER BY assigned_at LIMIT 1`, userAccountID, roleID, branchID, distributorID)
}

func (r *PostgresUserRoleRepository) DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM user_roles WHERE user_account_id = $1`, userAccountID)
}

func (r *PostgresUserRoleRepository) DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, roleID)
}

func (r *PostgresUserRoleRepository) DeleteByUserAccountIDAndRoleID(ctx context.Context, userAccountID, roleID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM user_roles WHERE user_account_id = $1 AND role_id = $2`, userAccountID, roleID)
}

func (r *PostgresUserRoleRepository) findOne(ctx context.Context, where string, args ...interface{}) (UserRole, error) {
	query := "SELECT " + userRoleColumns + " FROM user_roles WHERE " + where
	ur, err := database.CollectOne[UserRole](ctx, r.db, query, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return UserRole{}, ErrUserRoleNotFound
		}
		return UserRole{}, fmt.Errorf("failed to get user role: %w", err)
	}
	return ur, nil
}

func (r *PostgresUserRoleRepository) findAll(ctx context.Context, where string, args ...interface{}) ([]UserRole, error) {
	query := "SELECT " + userRoleColumns + " FROM user_roles WHERE " + where + " ORDER BY assigned_at DESC, id"
	urs, err := database.CollectAll[UserRole](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find user roles: %w", err)
	}
	return urs, nil
}

func (r *PostgresUserRoleRepository) exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user roles: %w", database.Translate(err, "user role"))
	}
	return tag.RowsAffected(), nil
}

package useraccount

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	userAccountTable   = "user_accounts"
	userAccountColumns = `id, full_name, nickname, email, user_type, branch_id, distributor_id,
		department_id, position_id, job_title, avatar_url, theme_preference, language_preference,
		locale, timezone, contact_phone, is_active, created_at, created_by, updated_at, updated_by`
)

// PostgresUserAccountRepository implements UserAccountRepository using PostgreSQL
type PostgresUserAccountRepository struct {
	db database.DBTX
}

func NewPostgresUserAccountRepository(db database.DBTX) *PostgresUserAccountRepository {
	return &PostgresUserAccountRepository{db: db}
}

func (r *PostgresUserAccountRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[UserAccount], error) {
	return database.FindPage[UserAccount](ctx, r.db, userAccountTable, userAccountColumns, q)
}

func (r *PostgresUserAccountRepository) Create(ctx context.Context, u UserAccount) (UserAccount, error) {
	query := `
		INSERT INTO user_accounts (
			full_name, nickname, email, user_type, branch_id, distributor_id, department_id,
			position_id, job_title, avatar_url, theme_preference, language_preference, locale,
			timezone, contact_phone, is_active, created_by, updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + userAccountColumns

	created, err := database.CollectOne[UserAccount](ctx, r.db, query,
		u.FullName, u.Nickname, u.Email, u.UserType, u.BranchID, u.DistributorID, u.DepartmentID,
		u.PositionID, u.JobTitle, u.AvatarURL, u.ThemePreference, u.LanguagePreference, u.Locale,
		u.Timezone, u.ContactPhone, u.IsActive, u.CreatedBy, u.UpdatedBy)
	if err != nil {
		return UserAccount{}, fmt.Errorf("failed to create user account: %w", database.Translate(err, "user account"))
	}
	return created, nil
}

func (r *PostgresUserAccountRepository) Update(ctx context.Context, u UserAccount) (UserAccount, error) {
	query := `
		UPDATE user_accounts
		SET full_name = $2, nickname = $3, email = $4, user_type = $5, branch_id = $6,
			distributor_id = $7, department_id = $8, position_id = $9, job_title = $10,
			avatar_url = $11, theme_preference = $12, language_preference = $13, locale = $14,
			timezone = $15, contact_phone = $16, is_active = $17, updated_by = $18, updated_at = now()
		WHERE id = $1
		RETURNING ` + userAccountColumns

	updated, err := database.CollectOne[UserAccount](ctx, r.db, query,
		u.ID, u.FullName, u.Nickname, u.Email, u.UserType, u.BranchID, u.DistributorID,
		u.DepartmentID, u.PositionID, u.JobTitle, u.AvatarURL, u.ThemePreference,
		u.LanguagePreference, u.Locale, u.Timezone, u.ContactPhone, u.IsActive, u.UpdatedBy)
	if err != nil {
		if database.IsNoRows(err) {
			return UserAccount{}, ErrUserAccountNotFound
		}
		return UserAccount{}, fmt.Errorf("failed to update user account: %w", database.Translate(err, "user account"))
	}
	return updated, nil
}

func (r *PostgresUserAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user account: %w", database.Translate(err, "user account"))
	}
	if tag.RowsAffected() == 0 {
		return ErrUserAccountNotFound
	}
	return nil
}

func (r *PostgresUserAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (UserAccount, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresUserAccountRepository) FindByEmail(ctx context.Context, email string) (UserAccount, error) {
	return r.findOne(ctx, "email = $1", strings.ToLower(email))
}

func (r *PostgresUserAccountRepository) FindByUserType(ctx context.Context, userType UserType) ([]UserAccount, error) {
	return r.findAll(ctx, "user_type = $1", userType)
}

func (r *PostgresUserAccountRepository) FindByIsActive(ctx context.Context, isActive bool) ([]UserAccount, error) {
	return r.findAll(ctx, "is_active = $1", isActive)
}

func (r *PostgresUserAccountRepository) FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserAccount, error) {
	return r.findAll(ctx, "branch_id = $1", branchID)
}

func (r *PostgresUserAccountRepository) FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserAccount, error) {
	return r.findAll(ctx, "distributor_id = $1", distributorID)
}

func (r *PostgresUserAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_accounts WHERE email = $1)`, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserAccountRepository) findOne(ctx context.Context, where string, args ...interface{}) (UserAccount, error) {
	query := "SELECT " + userAccountColumns + " FROM user_accounts WHERE " + where
	u, err := database.CollectOne[UserAccount](ctx, r.db, query, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return UserAccount{}, ErrUserAccountNotFound
		}
		return UserAccount{}, fmt.Errorf("failed to get user account: %w", err)
	}
	return u, nil
}

func (r *PostgresUserAccountRepository) findAll(ctx context.Context, where string, args ...interface{}) ([]UserAccount, error) {
	query := "SELECT " + userAccountColumns + " FROM user_accounts WHERE " + where + " ORDER BY full_name, id"
	accounts, err := database.CollectAll[UserAccount](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find user accounts: %w", err)
	}
	return accounts, nil
}

package externalidentity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/database"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

const (
	externalIdentityTable   = "user_external_identities"
	externalIdentityColumns = `id, user_account_id, provider, subject_id, email, is_primary, linked_at,
		created_at, created_by, updated_at, updated_by`
)

// PostgresExternalIdentityRepository implements ExternalIdentityRepository using PostgreSQL
type PostgresExternalIdentityRepository struct {
	db database.DBTX
}

func NewPostgresExternalIdentityRepository(db database.DBTX) *PostgresExternalIdentityRepository {
	return &PostgresExternalIdentityRepository{db: db}
}

func (r *PostgresExternalIdentityRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[ExternalIdentity], error) {
	return database.FindPage[ExternalIdentity](ctx, r.db, externalIdentityTable, externalIdentityColumns, q)
}

func (r *PostgresExternalIdentityRepository) Create(ctx context.Context, e ExternalIdentity) (ExternalIdentity, error) {
	query := `
		INSERT INTO user_external_identities (user_account_id, provider, subject_id, email, is_primary, linked_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()), $7, $8)
		RETURNING ` + externalIdentityColumns

	created, err := database.CollectOne[ExternalIdentity](ctx, r.db, query,
		e.UserAccountID, e.Provider, e.SubjectID, e.Email, e.IsPrimary, linkedAt(e.LinkedAt), e.CreatedBy, e.UpdatedBy)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("failed to create external identity: %w", database.Translate(err, "external identity"))
	}
	return created, nil
}

func (r *PostgresExternalIdentityRepository) Update(ctx context.Context, e ExternalIdentity) (ExternalIdentity, error) {
	query := `
		UPDATE user_external_identities
		SET user_account_id = $2, provider = $3, subject_id = $4, email = $5, is_primary = $6,
			linked_at = COALESCE($7, linked_at), updated_by = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + externalIdentityColumns

	updated, err := database.CollectOne[ExternalIdentity](ctx, r.db, query,
		e.ID, e.UserAccountID, e.Provider, e.SubjectID, e.Email, e.IsPrimary, linkedAt(e.LinkedAt), e.UpdatedBy)
	if err != nil {
		if database.IsNoRows(err) {
			return ExternalIdentity{}, ErrExternalIdentityNotFound
		}
		return ExternalIdentity{}, fmt.Errorf("failed to update external identity: %w", database.Translate(err, "external identity"))
	}
	return updated, nil
}

func (r *PostgresExternalIdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.exec(ctx, `DELETE FROM user_external_identities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExternalIdentityNotFound
	}
	return nil
}

func (r *PostgresExternalIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (ExternalIdentity, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresExternalIdentityRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]ExternalIdentity, error) {
	return r.findAll(ctx, "user_account_id = $1", userAccountID)
}

func (r *PostgresExternalIdentityRepository) FindByProvider(ctx context.Context, provider string) ([]ExternalIdentity, error) {
	return r.findAll(ctx, "provider = $1", provider)
}

func (r *PostgresExternalIdentityRepository) FindByProviderAndSubjectID(ctx context.Context, provider, subjectID string) (ExternalIdentity, error) {
	return r.findOne(ctx, "provider = $1 AND subject_id = $2", provider, subjectID)
}

func (r *PostgresExternalIdentityRepository) FindPrimaryByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (ExternalIdentity, error) {
	return r.findOne(ctx, "user_account_id = $1 AND is_primary ORDER BY linked_at LIMIT 1", userAccountID)
}

func (r *PostgresExternalIdentityRepository) DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM user_external_identities WHERE user_account_id = $1`, userAccountID)
}

func (r *PostgresExternalIdentityRepository) DeleteByUserAccountIDAndID(ctx context.Context, userAccountID, id uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM user_external_identities WHERE user_account_id = $1 AND id = $2`, userAccountID, id)
}

func (r *PostgresExternalIdentityRepository) findOne(ctx context.Context, where string, args ...interface{}) (ExternalIdentity, error) {
	query := "SELECT " + externalIdentityColumns + " FROM user_external_identities WHERE " + where
	e, err := database.CollectOne[ExternalIdentity](ctx, r.db, query, args...)
	if err != nil {
		if database.IsNoRows(err) {
			return ExternalIdentity{}, ErrExternalIdentityNotFound
		}
		return ExternalIdentity{}, fmt.Errorf("failed to get external identity: %w", err)
	}
	return e, nil
}

func (r *PostgresExternalIdentityRepository) findAll(ctx context.Context, where string, args ...interface{}) ([]ExternalIdentity, error) {
	query := "SELECT " + externalIdentityColumns + " FROM user_external_identities WHERE " + where + " ORDER BY linked_at, id"
	identities, err := database.CollectAll[ExternalIdentity](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find external identities: %w", err)
	}
	return identities, nil
}

func (r *PostgresExternalIdentityRepository) exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete external identities: %w", database.Translate(err, "external identity"))
	}
	return tag.RowsAffected(), nil
}

// linkedAt turns the zero time into NULL so the column default applies.
func linkedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package externalidentity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-user-mgmt/pkg/database/dbtest"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

func TestPostgresExternalIdentityRepository(t *testing.T) {
	pool := dbtest.Setup(t)
	repo := NewPostgresExternalIdentityRepository(pool)
	ctx := context.Background()

	var userID uuid.UUID
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO user_accounts (full_name, email, user_type) VALUES ('Judy', 'judy@example.com', 'EMPLOYEE') RETURNING id`).Scan(&userID))

	linked, err := repo.Create(ctx, ExternalIdentity{UserAccountID: userID, Provider: "okta", SubjectID: "00u1", IsPrimary: true})
	require.NoError(t, err)
	assert.False(t, linked.LinkedAt.IsZero(), "linked_at defaults to now")

	_, err = repo.Create(ctx, ExternalIdentity{UserAccountID: userID, Provider: "okta", SubjectID: "00u1"})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	_, err = repo.Create(ctx, ExternalIdentity{UserAccountID: uuid.New(), Provider: "okta", SubjectID: "00u2"})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeConflict))

	primary, err := repo.FindPrimaryByUserAccountID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, linked.ID, primary.ID)

	got, err := repo.FindByProviderAndSubjectID(ctx, "okta", "00u1")
	require.NoError(t, err)
	assert.Equal(t, linked.ID, got.ID)

	linked.IsPrimary = false
	updated, err := repo.Update(ctx, linked)
	require.NoError(t, err)
	assert.True(t, linked.LinkedAt.Equal(updated.LinkedAt))
	_, err = repo.FindPrimaryByUserAccountID(ctx, userID)
	assert.ErrorIs(t, err, ErrExternalIdentityNotFound)

	n, err := repo.DeleteByUserAccountIDAndID(ctx, uuid.New(), linked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.DeleteByUserAccountIDAndID(ctx, userID, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByUserAccountID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

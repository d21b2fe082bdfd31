package useraccount

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-user-mgmt/pkg/database/dbtest"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

func TestPostgresUserAccountRepository(t *testing.T) {
	pool := dbtest.Setup(t)
	repo := NewPostgresUserAccountRepository(pool)
	ctx := context.Background()

	branch := uuid.New()
	theme := ThemeSystem
	locale := "en_US"
	created, err := repo.Create(ctx, UserAccount{
		FullName:        "Frank",
		Email:           "frank@example.com",
		UserType:        UserTypeEmployee,
		BranchID:        &branch,
		ThemePreference: &theme,
		Locale:          &locale,
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.NotNil(t, created.ThemePreference)
	assert.Equal(t, ThemeSystem, *created.ThemePreference)

	_, err = repo.Create(ctx, UserAccount{FullName: "Grace", Email: "grace@example.com", UserType: UserTypeDistributor})
	require.NoError(t, err)

	t.Run("unique email", func(t *testing.T) {
		_, err := repo.Create(ctx, UserAccount{FullName: "Frank 2", Email: "frank@example.com", UserType: UserTypeEmployee})
		assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))
	})

	t.Run("finders", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "Frank@Example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		inactive, err := repo.FindByIsActive(ctx, false)
		require.NoError(t, err)
		require.Len(t, inactive, 1)
		assert.Equal(t, "Grace", inactive[0].FullName)

		byBranch, err := repo.FindByBranchID(ctx, branch)
		require.NoError(t, err)
		require.Len(t, byBranch, 1)

		byType, err := repo.FindByUserType(ctx, UserTypeDistributor)
		require.NoError(t, err)
		require.Len(t, byType, 1)

		byDistributor, err := repo.FindByDistributorID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, byDistributor)

		exists, err := repo.ExistsByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("filter", func(t *testing.T) {
		q, err := FilterSchema.Compile(filter.Request{
			Filters: map[string]interface{}{"branchId": branch.String(), "isActive": true},
		})
		require.NoError(t, err)
		page, err := repo.Filter(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, created.ID, page.Content[0].ID)
	})

	t.Run("update and delete", func(t *testing.T) {
		changed := created
		changed.IsActive = false
		changed.ThemePreference = nil
		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Nil(t, updated.ThemePreference)

		require.NoError(t, repo.Delete(ctx, created.ID))
		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrUserAccountNotFound)
	})
}

package userrole

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*UserRoleService, *InMemoryUserRoleRepository) {
	repo := NewInMemoryUserRoleRepository()
	service := NewUserRoleService(repo)
	service.now = func() time.Time { return fixedNow }
	return service, repo
}

func TestUserRoleService_CRUD(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	assigner := uuid.New()

	created, err := service.CreateUserRole(ctx, UserRoleDTO{
		UserAccountID: uuid.New(),
		RoleID:        uuid.New(),
		AssignedAt:    fixedNow,
		AssignedBy:    assigner,
	})
	require.NoError(t, err)

	got, err := service.GetUserRole(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	branch := uuid.New()
	replacement := got
	replacement.ID = uuid.New()
	replacement.BranchID = &branch
	updated, err := service.UpdateUserRole(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, &branch, updated.BranchID)

	require.NoError(t, service.DeleteUserRole(ctx, created.ID))
	err = service.DeleteUserRole(ctx, created.ID)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
	_, err = service.UpdateUserRole(ctx, created.ID, replacement)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
}

func TestUserRoleService_AssignRoleToUser(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	user, role := uuid.New(), uuid.New()
	actor := uuid.New()

	assigned, err := service.AssignRoleToUser(ctx, user, AssignRoleRequest{RoleID: role}, &actor)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, assigned.AssignedAt)
	assert.Equal(t, actor, assigned.AssignedBy)
	assert.Equal(t, &actor, assigned.CreatedBy)

	_, err = service.AssignRoleToUser(ctx, user, AssignRoleRequest{RoleID: role}, &actor)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	branch := uuid.New()
	explicit := uuid.New()
	when := fixedNow.Add(-time.Hour)
	scoped, err := service.AssignRoleToUser(ctx, user, AssignRoleRequest{
		RoleID:     role,
		BranchID:   &branch,
		AssignedAt: &when,
		AssignedBy: &explicit,
	}, &actor)
	require.NoError(t, err)
	assert.Equal(t, explicit, scoped.AssignedBy)
	assert.Equal(t, when, scoped.AssignedAt)

	_, err = service.AssignRoleToUser(ctx, user, AssignRoleRequest{RoleID: uuid.New()}, nil)
	require.Error(t, err)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeValidationFailed))

	page, err := service.ListRolesForUser(ctx, user, filter.NewRequest(0, 10))
	require.NoError(t, err)
	require.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, assigned.ID, page.Content[0].ID, "most recent assignment first")

	byBranch, err := service.FindByBranchID(ctx, branch)
	require.NoError(t, err)
	assert.Len(t, byBranch, 1)
}

func TestUserRoleService_Removal(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService()
	alice, bob := uuid.New(), uuid.New()
	admin, viewer := uuid.New(), uuid.New()
	actor := uuid.New()

	for _, pair := range [][2]uuid.UUID{{alice, admin}, {alice, viewer}, {bob, viewer}} {
		_, err := service.AssignRoleToUser(ctx, pair[0], AssignRoleRequest{RoleID: pair[1]}, &actor)
		require.NoError(t, err)
	}

	require.NoError(t, service.RemoveRoleFromUser(ctx, alice, admin))
	err := service.RemoveRoleFromUser(ctx, alice, admin)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
	assert.ErrorIs(t, err, ErrUserRoleNotFound)

	viewers, err := service.FindByRoleID(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, viewers, 2)

	n, err := service.RemoveRoleFromAllUsers(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = service.RemoveAllRolesFromUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	remaining, err := repo.FindByUserAccountID(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestUserRoleService_AssignRoleToUser_Concurrent(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService()
	user, role, actor := uuid.New(), uuid.New(), uuid.New()

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.AssignRoleToUser(ctx, user, AssignRoleRequest{RoleID: role}, &actor)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists), err)
	}
	assert.Equal(t, 1, succeeded)

	assignments, err := repo.FindByUserAccountID(ctx, user)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestInMemoryUserRoleRepository_UniqueAssignment(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRoleRepository()
	user, role, actor := uuid.New(), uuid.New(), uuid.New()
	branch := uuid.New()

	global, err := repo.Create(ctx, UserRole{UserAccountID: user, RoleID: role, AssignedAt: fixedNow, AssignedBy: actor})
	require.NoError(t, err)
	scoped, err := repo.Create(ctx, UserRole{UserAccountID: user, RoleID: role, BranchID: &branch, AssignedAt: fixedNow, AssignedBy: actor})
	require.NoError(t, err)

	_, err = repo.Create(ctx, UserRole{UserAccountID: user, RoleID: role, AssignedAt: fixedNow, AssignedBy: actor})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	// moving the scoped row onto the global scope collides
	scoped.BranchID = nil
	_, err = repo.Update(ctx, scoped)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	// rewriting a row in place is not a collision with itself
	global.AssignedBy = uuid.New()
	_, err = repo.Update(ctx, global)
	assert.NoError(t, err)
}

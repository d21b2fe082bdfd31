package rolepermission

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// countingRepository wraps the in-memory repository and counts writes.
type countingRepository struct {
	*InMemoryRolePermissionRepository
	updateCalls int
	deleteCalls int
}

func (c *countingRepository) Update(ctx context.Context, rp RolePermission) (RolePermission, error) {
	c.updateCalls++
	return c.InMemoryRolePermissionRepository.Update(ctx, rp)
}

func (c *countingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	c.deleteCalls++
	return c.InMemoryRolePermissionRepository.Delete(ctx, id)
}

func newCountingRepository() *countingRepository {
	return &countingRepository{InMemoryRolePermissionRepository: NewInMemoryRolePermissionRepository()}
}

func TestRolePermissionService_CRUD(t *testing.T) {
	ctx := context.Background()
	service := NewRolePermissionService(newCountingRepository())
	roleID, permissionID := uuid.New(), uuid.New()

	created, err := service.CreateRolePermission(ctx, RolePermissionDTO{RoleID: roleID, PermissionID: permissionID})
	require.NoError(t, err)

	got, err := service.GetRolePermission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	other := uuid.New()
	updated, err := service.UpdateRolePermission(ctx, created.ID, RolePermissionDTO{ID: uuid.New(), RoleID: roleID, PermissionID: other})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, other, updated.PermissionID)

	require.NoError(t, service.DeleteRolePermission(ctx, created.ID))
	_, err = service.GetRolePermission(ctx, created.ID)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
}

func TestRolePermissionService_MissingLinkSkipsWrites(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepository()
	service := NewRolePermissionService(repo)
	id := uuid.New()

	_, err := service.UpdateRolePermission(ctx, id, RolePermissionDTO{RoleID: uuid.New(), PermissionID: uuid.New()})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), id.String())

	err = service.DeleteRolePermission(ctx, id)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))

	assert.Equal(t, 0, repo.updateCalls)
	assert.Equal(t, 0, repo.deleteCalls)
}

func TestRolePermissionService_AssignAndRemove(t *testing.T) {
	ctx := context.Background()
	service := NewRolePermissionService(NewInMemoryRolePermissionRepository())
	roleID := uuid.New()
	read, write := uuid.New(), uuid.New()
	actor := uuid.New()

	_, err := service.AssignPermissionToRole(ctx, roleID, read, &actor)
	require.NoError(t, err)
	assigned, err := service.AssignPermissionToRole(ctx, roleID, write, &actor)
	require.NoError(t, err)
	assert.Equal(t, &actor, assigned.CreatedBy)

	_, err = service.AssignPermissionToRole(ctx, roleID, read, nil)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	_, err = service.AssignPermissionToRole(ctx, uuid.New(), read, nil)
	require.NoError(t, err)

	page, err := service.ListPermissionsForRole(ctx, roleID, filter.NewRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)

	has, err := service.HasPermission(ctx, roleID, write)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, service.RemovePermissionFromRole(ctx, roleID, write))

	err = service.RemovePermissionFromRole(ctx, roleID, write)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
	assert.ErrorIs(t, err, ErrRolePermissionNotFound)

	has, err = service.HasPermission(ctx, roleID, write)
	require.NoError(t, err)
	assert.False(t, has)

	holders, err := service.FindByPermissionID(ctx, read)
	require.NoError(t, err)
	assert.Len(t, holders, 2)

	n, err := service.RemoveAllPermissionsFromRole(ctx, roleID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining, err := service.FindByRoleID(ctx, roleID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

package permission

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

func newService() *PermissionService {
	return NewPermissionService(NewInMemoryPermissionRepository())
}

func TestPermissionService_CRUD(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreatePermission(ctx, PermissionDTO{Name: "USER_READ", Domain: "user_management"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetPermission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "USER_READ", got.Name)

	desc := "Read user accounts"
	updated, err := svc.UpdatePermission(ctx, created.ID, PermissionDTO{Name: "USER_READ", Domain: "user_management", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	require.NoError(t, svc.DeletePermission(ctx, created.ID))

	_, err = svc.GetPermission(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
	assert.ErrorIs(t, err, ErrPermissionNotFound)
	assert.Equal(t, "permission not found with ID: "+created.ID.String(), idmerrors.GetMessage(err))
}

func TestPermissionService_NotFound(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.UpdatePermission(ctx, id, PermissionDTO{Name: "X", Domain: "x"})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))

	err = svc.DeletePermission(ctx, id)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))

	_, err = svc.GetPermissionByName(ctx, "MISSING")
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeNotFound))
}

func TestPermissionService_Finders(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, dto := range []PermissionDTO{
		{Name: "USER_WRITE", Domain: "user_management"},
		{Name: "USER_READ", Domain: "user_management"},
		{Name: "REPORT_VIEW", Domain: "reporting"},
	} {
		_, err := svc.CreatePermission(ctx, dto)
		require.NoError(t, err)
	}

	_, err := svc.CreatePermission(ctx, PermissionDTO{Name: "USER_READ", Domain: "other"})
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists))

	byDomain, err := svc.FindPermissionsByDomain(ctx, "user_management")
	require.NoError(t, err)
	require.Len(t, byDomain, 2)
	assert.Equal(t, "USER_READ", byDomain[0].Name)

	byName, err := svc.GetPermissionByName(ctx, "REPORT_VIEW")
	require.NoError(t, err)
	assert.Equal(t, "reporting", byName.Domain)

	exists, err := svc.PermissionNameExists(ctx, "USER_WRITE")
	require.NoError(t, err)
	assert.True(t, exists)

	page, err := svc.FilterPermissions(ctx, filter.Request{Filters: map[string]interface{}{"name": "user"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 0, page.CurrentPage)
}

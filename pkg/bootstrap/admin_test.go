package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-user-mgmt/pkg/role"
	"github.com/tendant/simple-user-mgmt/pkg/useraccount"
	"github.com/tendant/simple-user-mgmt/pkg/userrole"
)

func newConfig() AdminBootstrapConfig {
	return AdminBootstrapConfig{
		AdminRoleNames:     []string{"admin", "superadmin"},
		AdminEmail:         "root@example.com",
		RoleService:        role.NewRoleService(role.NewInMemoryRoleRepository()),
		UserAccountService: useraccount.NewUserAccountService(useraccount.NewInMemoryUserAccountRepository()),
		UserRoleService:    userrole.NewUserRoleService(userrole.NewInMemoryUserRoleRepository()),
	}
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig()

	result, err := BootstrapAdmin(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, result.Roles, 2)
	assert.Equal(t, 2, countCreated(result.Roles))
	assert.Equal(t, "admin", result.PrimaryRole.Name)
	assert.True(t, result.UserCreated)
	assert.True(t, result.RoleAssigned)
	assert.Equal(t, "root@example.com", result.Email)

	r, err := cfg.RoleService.GetRoleByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, role.ScopeTypeGlobal, r.ScopeType)
	require.NotNil(t, r.IsAssignable)
	assert.True(t, *r.IsAssignable)

	user, err := cfg.UserAccountService.GetUserAccountByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", user.FullName)

	assignments, err := cfg.UserRoleService.FindByUserAccountID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, result.PrimaryRole.ID, assignments[0].RoleID)
	assert.Equal(t, user.ID, assignments[0].AssignedBy)

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := BootstrapAdmin(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0, countCreated(again.Roles))
		assert.Equal(t, result.PrimaryRole.ID, again.PrimaryRole.ID)
		assert.False(t, again.UserCreated)
		assert.False(t, again.RoleAssigned)
		assert.Equal(t, user.ID, again.UserAccountID)

		assignments, err := cfg.UserRoleService.FindByUserAccountID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})
}

func TestBootstrapAdmin_RolesOnly(t *testing.T) {
	cfg := AdminBootstrapConfig{
		AdminRoleNames: []string{"admin"},
		RoleService:    role.NewRoleService(role.NewInMemoryRoleRepository()),
	}

	result, err := BootstrapAdmin(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, result.PrimaryRole.Created)
	assert.Empty(t, result.Email)
	assert.False(t, result.UserCreated)

	LogBootstrapSummary(result)
}

func TestBootstrapAdmin_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  AdminBootstrapConfig
	}{
		{"no roles", AdminBootstrapConfig{RoleService: role.NewRoleService(role.NewInMemoryRoleRepository())}},
		{"no role service", AdminBootstrapConfig{AdminRoleNames: []string{"admin"}}},
		{"email without user services", AdminBootstrapConfig{
			AdminRoleNames: []string{"admin"},
			AdminEmail:     "root@example.com",
			RoleService:    role.NewRoleService(role.NewInMemoryRoleRepository()),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BootstrapAdmin(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestBootstrapAdmin_InvalidEmail(t *testing.T) {
	cfg := newConfig()
	cfg.AdminEmail = "not-an-email"

	_, err := BootstrapAdmin(context.Background(), cfg)
	require.Error(t, err)

	// roles were still ensured
	exists, err := cfg.RoleService.RoleNameExists(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, exists)
}

// Package role manages roles: named bundles of permissions that can be
// assigned to user accounts at a global, branch or distributor scope.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-user-mgmt/pkg/role"
//
//	repo := role.NewPostgresRoleRepository(pool)
//	service := role.NewRoleService(repo)
//
//	assignable := true
//	created, err := service.CreateRole(ctx, role.RoleDTO{
//		Name:         "ADMIN",
//		IsAssignable: &assignable,
//		ScopeType:    role.ScopeTypeGlobal,
//	})
//
// Update, Delete and GetRole return an error with code NOT_FOUND (wrapping
// ErrRoleNotFound) when no role has the given id.
//
// # Storage
//
// PostgresRoleRepository stores roles in the roles table; role names are
// unique. InMemoryRoleRepository keeps them in a map and is used by tests
// and the memory persistence mode.
package role

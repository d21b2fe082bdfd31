// Package bootstrap seeds the records a fresh deployment needs before an
// administrator can use the API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/role"
	"github.com/tendant/simple-user-mgmt/pkg/useraccount"
	"github.com/tendant/simple-user-mgmt/pkg/userrole"
	"github.com/tendant/simple-user-mgmt/pkg/validation"
)

// AdminBootstrapConfig contains configuration for bootstrapping admin roles and user
type AdminBootstrapConfig struct {
	// Admin role names (from ADMIN_ROLES)
	AdminRoleNames []string

	// Optional first administrator (from BOOTSTRAP_ADMIN_EMAIL, BOOTSTRAP_ADMIN_NAME).
	// No user account is created when AdminEmail is empty.
	AdminEmail    string
	AdminFullName string

	RoleService        *role.RoleService
	UserAccountService *useraccount.UserAccountService
	UserRoleService    *userrole.UserRoleService
}

// AdminRoleInfo contains information about a bootstrapped admin role
type AdminRoleInfo struct {
	ID      uuid.UUID
	Name    string
	Created bool // true if created, false if already existed
}

// AdminBootstrapResult contains the result of admin bootstrap operation
type AdminBootstrapResult struct {
	// Roles that were ensured (created or found)
	Roles []AdminRoleInfo

	// Primary admin role (first in list)
	PrimaryRole AdminRoleInfo

	UserAccountID uuid.UUID
	Email         string
	UserCreated   bool
	RoleAssigned  bool
}

// BootstrapAdmin ensures the admin roles exist and, when an admin email is
// configured, that a user account with that email holds the primary one.
// Running it again is a no-op.
func BootstrapAdmin(ctx context.Context, cfg AdminBootstrapConfig) (*AdminBootstrapResult, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid bootstrap configuration: %w", err)
	}

	roles, err := ensureAdminRoles(ctx, cfg.RoleService, cfg.AdminRoleNames)
	if err != nil {
		return nil, err
	}
	result := &AdminBootstrapResult{
		Roles:       roles,
		PrimaryRole: roles[0],
	}

	if cfg.AdminEmail == "" {
		return result, nil
	}

	user, created, err := ensureAdminUser(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.UserAccountID = user.ID
	result.Email = user.Email
	result.UserCreated = created

	_, err = cfg.UserRoleService.AssignRoleToUser(ctx, user.ID,
		userrole.AssignRoleRequest{RoleID: result.PrimaryRole.ID}, &user.ID)
	switch {
	case err == nil:
		result.RoleAssigned = true
		slog.Info("Admin role assigned", "user_id", user.ID, "role", result.PrimaryRole.Name)
	case idmerrors.IsCode(err, idmerrors.ErrCodeAlreadyExists):
		slog.Info("Admin user already holds the admin role", "user_id", user.ID, "role", result.PrimaryRole.Name)
	default:
		return nil, fmt.Errorf("failed to assign admin role: %w", err)
	}

	return result, nil
}

// validateConfig validates the bootstrap configuration
func validateConfig(cfg AdminBootstrapConfig) error {
	if len(cfg.AdminRoleNames) == 0 {
		return fmt.Errorf("at least one admin role name is required")
	}
	if cfg.RoleService == nil {
		return fmt.Errorf("RoleService is required")
	}
	if cfg.AdminEmail != "" && (cfg.UserAccountService == nil || cfg.UserRoleService == nil) {
		return fmt.Errorf("UserAccountService and UserRoleService are required to bootstrap an admin user")
	}
	return nil
}

// ensureAdminRoles ensures all admin roles exist, creating them if necessary
func ensureAdminRoles(ctx context.Context, roleService *role.RoleService, roleNames []string) ([]AdminRoleInfo, error) {
	assignable := true
	roleInfos := make([]AdminRoleInfo, 0, len(roleNames))

	for _, roleName := range roleNames {
		existing, err := roleService.GetRoleByName(ctx, roleName)
		if err == nil {
			slog.Info("Admin role already exists", "role", roleName, "id", existing.ID)
			roleInfos = append(roleInfos, AdminRoleInfo{ID: existing.ID, Name: roleName})
			continue
		}
		if !idmerrors.IsCode(err, idmerrors.ErrCodeNotFound) {
			return nil, fmt.Errorf("failed to look up admin role %s: %w", roleName, err)
		}

		description := "Administrators"
		created, err := roleService.CreateRole(ctx, role.RoleDTO{
			Name:         roleName,
			Description:  &description,
			IsAssignable: &assignable,
			ScopeType:    role.ScopeTypeGlobal,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create admin role %s: %w", roleName, err)
		}

		slog.Info("Admin role created", "role", roleName, "id", created.ID)
		roleInfos = append(roleInfos, AdminRoleInfo{ID: created.ID, Name: roleName, Created: true})
	}

	return roleInfos, nil
}

func ensureAdminUser(ctx context.Context, cfg AdminBootstrapConfig) (useraccount.UserAccountDTO, bool, error) {
	existing, err := cfg.UserAccountService.GetUserAccountByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		slog.Info("Admin user already exists", "email", existing.Email, "user_id", existing.ID)
		return existing, false, nil
	}
	if !idmerrors.IsCode(err, idmerrors.ErrCodeNotFound) {
		return useraccount.UserAccountDTO{}, false, fmt.Errorf("failed to look up admin user: %w", err)
	}

	fullName := strings.TrimSpace(cfg.AdminFullName)
	if fullName == "" {
		fullName = "Administrator"
	}
	active := true
	dto := useraccount.UserAccountDTO{
		FullName: fullName,
		Email:    cfg.AdminEmail,
		UserType: useraccount.UserTypeEmployee,
		IsActive: &active,
	}
	if err := validation.Struct(dto); err != nil {
		return useraccount.UserAccountDTO{}, false, fmt.Errorf("invalid admin user: %w", err)
	}
	created, err := cfg.UserAccountService.CreateUserAccount(ctx, dto)
	if err != nil {
		return useraccount.UserAccountDTO{}, false, fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Admin user created", "email", created.Email, "user_id", created.ID)
	return created, true, nil
}

// countCreated counts how many roles were created (vs already existed)
func countCreated(roles []AdminRoleInfo) int {
	count := 0
	for _, r := range roles {
		if r.Created {
			count++
		}
	}
	return count
}

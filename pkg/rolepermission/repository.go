package rolepermission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrRolePermissionNotFound = errors.New("role permission not found")
)

// RolePermissionRepository defines the interface for role permission data access
type RolePermissionRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[RolePermission], error)
	Create(ctx context.Context, rp RolePermission) (RolePermission, error)
	Update(ctx context.Context, rp RolePermission) (RolePermission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (RolePermission, error)

	FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]RolePermission, error)
	FindByPermissionID(ctx context.Context, permissionID uuid.UUID) ([]RolePermission, error)
	FindByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (RolePermission, error)
	// DeleteByRoleID and DeleteByRoleIDAndPermissionID return the number of
	// rows removed.
	DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error)
	DeleteByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (int64, error)
}

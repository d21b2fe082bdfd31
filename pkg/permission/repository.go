package permission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrPermissionNotFound = errors.New("permission not found")
)

// PermissionRepository defines the interface for permission data access
type PermissionRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[Permission], error)
	Create(ctx context.Context, permission Permission) (Permission, error)
	Update(ctx context.Context, permission Permission) (Permission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Permission, error)

	FindByName(ctx context.Context, name string) (Permission, error)
	FindByDomain(ctx context.Context, domain string) ([]Permission, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

package role

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrRoleNotFound = errors.New("role not found")
)

// RoleRepository defines the interface for role data access.
// Lookups by id return ErrRoleNotFound when no row matches.
type RoleRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[Role], error)
	Create(ctx context.Context, role Role) (Role, error)
	// Update replaces every mutable column of the role with role.ID.
	Update(ctx context.Context, role Role) (Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Role, error)

	FindByName(ctx context.Context, name string) (Role, error)
	FindByIsAssignable(ctx context.Context, isAssignable bool) ([]Role, error)
	FindByScopeType(ctx context.Context, scopeType ScopeType) ([]Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

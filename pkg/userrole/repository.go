package userrole

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrUserRoleNotFound = errors.New("user role not found")
)

// UserRoleRepository defines the interface for user role data access
type UserRoleRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[UserRole], error)
	Create(ctx context.Context, ur UserRole) (UserRole, error)
	Update(ctx context.Context, ur UserRole) (UserRole, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (UserRole, error)

	FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]UserRole, error)
	FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]UserRole, error)
	FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserRole, error)
	FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserRole, error)
	// FindByAssignment matches nil branch and distributor ids against NULL.
	FindByAssignment(ctx context.Context, userAccountID, roleID uuid.UUID, branchID, distributorID *uuid.UUID) (UserRole, error)
	DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error)
	DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error)
	DeleteByUserAccountIDAndRoleID(ctx context.Context, userAccountID, roleID uuid.UUID) (int64, error)
}

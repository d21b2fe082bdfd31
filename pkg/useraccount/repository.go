package useraccount

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrUserAccountNotFound = errors.New("user account not found")
)

// UserAccountRepository defines the interface for user account data access
type UserAccountRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[UserAccount], error)
	Create(ctx context.Context, account UserAccount) (UserAccount, error)
	Update(ctx context.Context, account UserAccount) (UserAccount, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (UserAccount, error)

	FindByEmail(ctx context.Context, email string) (UserAccount, error)
	FindByUserType(ctx context.Context, userType UserType) ([]UserAccount, error)
	FindByIsActive(ctx context.Context, isActive bool) ([]UserAccount, error)
	FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserAccount, error)
	FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserAccount, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

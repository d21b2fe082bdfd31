package externalidentity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

var (
	ErrExternalIdentityNotFound = errors.New("external identity not found")
)

// ExternalIdentityRepository defines the interface for external identity data access
type ExternalIdentityRepository interface {
	Filter(ctx context.Context, q filter.Query) (filter.Page[ExternalIdentity], error)
	Create(ctx context.Context, identity ExternalIdentity) (ExternalIdentity, error)
	Update(ctx context.Context, identity ExternalIdentity) (ExternalIdentity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (ExternalIdentity, error)

	FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]ExternalIdentity, error)
	FindByProvider(ctx context.Context, provider string) ([]ExternalIdentity, error)
	FindByProviderAndSubjectID(ctx context.Context, provider, subjectID string) (ExternalIdentity, error)
	FindPrimaryByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (ExternalIdentity, error)
	DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error)
	DeleteByUserAccountIDAndID(ctx context.Context, userAccountID, id uuid.UUID) (int64, error)
}

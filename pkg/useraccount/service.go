package useraccount

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// UserAccountService implements the user account operations on top of a
// UserAccountRepository.
type UserAccountService struct {
	repo UserAccountRepository
}

func NewUserAccountService(repo UserAccountRepository) *UserAccountService {
	return &UserAccountService{repo: repo}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrUserAccountNotFound, "user account", id.String())
}

// FilterUserAccounts returns one page of accounts matching req.
func (s *UserAccountService) FilterUserAccounts(ctx context.Context, req filter.Request) (filter.Page[UserAccountDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[UserAccountDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[UserAccountDTO]{}, fmt.Errorf("failed to filter user accounts: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

// CreateUserAccount persists a new account. Any id in dto is ignored.
func (s *UserAccountService) CreateUserAccount(ctx context.Context, dto UserAccountDTO) (UserAccountDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return UserAccountDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return UserAccountDTO{}, fmt.Errorf("failed to create user account: %w", err)
	}
	slog.Info("User account created", "id", created.ID, "user_type", created.UserType)
	return ToDTO(created), nil
}

// UpdateUserAccount replaces every mutable field of the account with id.
func (s *UserAccountService) UpdateUserAccount(ctx context.Context, id uuid.UUID, dto UserAccountDTO) (UserAccountDTO, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return UserAccountDTO{}, notFound(id)
		}
		return UserAccountDTO{}, fmt.Errorf("failed to get user account: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return UserAccountDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return UserAccountDTO{}, notFound(id)
		}
		return UserAccountDTO{}, fmt.Errorf("failed to update user account: %w", err)
	}
	if existing.IsActive != updated.IsActive {
		slog.Info("User account activation changed", "id", id, "is_active", updated.IsActive)
	}
	return ToDTO(updated), nil
}

func (s *UserAccountService) DeleteUserAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get user account: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete user account: %w", err)
	}
	slog.Info("User account deleted", "id", id)
	return nil
}

func (s *UserAccountService) GetUserAccount(ctx context.Context, id uuid.UUID) (UserAccountDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return UserAccountDTO{}, notFound(id)
		}
		return UserAccountDTO{}, fmt.Errorf("failed to get user account: %w", err)
	}
	return ToDTO(u), nil
}

func (s *UserAccountService) GetUserAccountByEmail(ctx context.Context, email string) (UserAccountDTO, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserAccountNotFound) {
			return UserAccountDTO{}, idmerrors.Wrapf(ErrUserAccountNotFound, idmerrors.ErrCodeNotFound, "user account not found with email: %s", email)
		}
		return UserAccountDTO{}, fmt.Errorf("failed to get user account: %w", err)
	}
	return ToDTO(u), nil
}

func (s *UserAccountService) FindUserAccountsByType(ctx context.Context, userType UserType) ([]UserAccountDTO, error) {
	return toDTOs(s.repo.FindByUserType(ctx, userType))
}

func (s *UserAccountService) FindActiveUserAccounts(ctx context.Context, isActive bool) ([]UserAccountDTO, error) {
	return toDTOs(s.repo.FindByIsActive(ctx, isActive))
}

func (s *UserAccountService) FindUserAccountsByBranch(ctx context.Context, branchID uuid.UUID) ([]UserAccountDTO, error) {
	return toDTOs(s.repo.FindByBranchID(ctx, branchID))
}

func (s *UserAccountService) FindUserAccountsByDistributor(ctx context.Context, distributorID uuid.UUID) ([]UserAccountDTO, error) {
	return toDTOs(s.repo.FindByDistributorID(ctx, distributorID))
}

func (s *UserAccountService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func toDTOs(accounts []UserAccount, err error) ([]UserAccountDTO, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to find user accounts: %w", err)
	}
	dtos := make([]UserAccountDTO, 0, len(accounts))
	for _, u := range accounts {
		dtos = append(dtos, ToDTO(u))
	}
	return dtos, nil
}

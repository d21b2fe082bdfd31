package userrole

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type UserRoleService struct {
	repo UserRoleRepository
	now  func() time.Time
}

func NewUserRoleService(repo UserRoleRepository) *UserRoleService {
	return &UserRoleService{repo: repo, now: time.Now}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrUserRoleNotFound, "user role", id.String())
}

func (s *UserRoleService) FilterUserRoles(ctx context.Context, req filter.Request) (filter.Page[UserRoleDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[UserRoleDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[UserRoleDTO]{}, fmt.Errorf("failed to filter user roles: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

func (s *UserRoleService) CreateUserRole(ctx context.Context, dto UserRoleDTO) (UserRoleDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return UserRoleDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return UserRoleDTO{}, fmt.Errorf("failed to create user role: %w", err)
	}
	slog.Info("Role assigned to user", "user_account_id", created.UserAccountID, "role_id", created.RoleID, "assigned_by", created.AssignedBy)
	return ToDTO(created), nil
}

func (s *UserRoleService) UpdateUserRole(ctx context.Context, id uuid.UUID, dto UserRoleDTO) (UserRoleDTO, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserRoleNotFound) {
			return UserRoleDTO{}, notFound(id)
		}
		return UserRoleDTO{}, fmt.Errorf("failed to get user role: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return UserRoleDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrUserRoleNotFound) {
			return UserRoleDTO{}, notFound(id)
		}
		return UserRoleDTO{}, fmt.Errorf("failed to update user role: %w", err)
	}
	return ToDTO(updated), nil
}

func (s *UserRoleService) DeleteUserRole(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrUserRoleNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserRoleNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete user role: %w", err)
	}
	return nil
}

func (s *UserRoleService) GetUserRole(ctx context.Context, id uuid.UUID) (UserRoleDTO, error) {
	ur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserRoleNotFound) {
			return UserRoleDTO{}, notFound(id)
		}
		return UserRoleDTO{}, fmt.Errorf("failed to get user role: %w", err)
	}
	return ToDTO(ur), nil
}

// ListRolesForUser pages through the role assignments of userID.
func (s *UserRoleService) ListRolesForUser(ctx context.Context, userID uuid.UUID, req filter.Request) (filter.Page[UserRoleDTO], error) {
	return s.FilterUserRoles(ctx, req.With("userAccountId", userID))
}

// AssignRoleToUser records a new assignment for userID. Repeating an
// assignment with the same role and scope fails with ALREADY_EXISTS.
func (s *UserRoleService) AssignRoleToUser(ctx context.Context, userID uuid.UUID, req AssignRoleRequest, actor *uuid.UUID) (UserRoleDTO, error) {
	assignedBy := req.AssignedBy
	if assignedBy == nil {
		assignedBy = actor
	}
	if assignedBy == nil {
		return UserRoleDTO{}, idmerrors.ValidationFailed(map[string]interface{}{"assignedBy": "is required"})
	}
	assignedAt := s.now().UTC()
	if req.AssignedAt != nil {
		assignedAt = *req.AssignedAt
	}

	_, err := s.repo.FindByAssignment(ctx, userID, req.RoleID, req.BranchID, req.DistributorID)
	if err == nil {
		return UserRoleDTO{}, idmerrors.AlreadyExists("user role", userID.String()+"/"+req.RoleID.String())
	}
	if !errors.Is(err, ErrUserRoleNotFound) {
		return UserRoleDTO{}, fmt.Errorf("failed to check user role: %w", err)
	}

	return s.CreateUserRole(ctx, UserRoleDTO{
		UserAccountID: userID,
		RoleID:        req.RoleID,
		BranchID:      req.BranchID,
		DistributorID: req.DistributorID,
		AssignedAt:    assignedAt,
		AssignedBy:    *assignedBy,
		CreatedBy:     actor,
		UpdatedBy:     actor,
	})
}

// RemoveRoleFromUser deletes every assignment of roleID to userID regardless
// of scope.
func (s *UserRoleService) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	n, err := s.repo.DeleteByUserAccountIDAndRoleID(ctx, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove role from user: %w", err)
	}
	if n == 0 {
		return idmerrors.Wrapf(ErrUserRoleNotFound, idmerrors.ErrCodeNotFound,
			"user role not found for user %s and role %s", userID, roleID)
	}
	slog.Info("Role removed from user", "user_account_id", userID, "role_id", roleID, "count", n)
	return nil
}

func (s *UserRoleService) RemoveAllRolesFromUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByUserAccountID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove roles from user: %w", err)
	}
	return n, nil
}

func (s *UserRoleService) RemoveRoleFromAllUsers(ctx context.Context, roleID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByRoleID(ctx, roleID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove role assignments: %w", err)
	}
	return n, nil
}

func (s *UserRoleService) FindByUserAccountID(ctx context.Context, userID uuid.UUID) ([]UserRoleDTO, error) {
	return toDTOs(s.repo.FindByUserAccountID(ctx, userID))
}

func (s *UserRoleService) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]UserRoleDTO, error) {
	return toDTOs(s.repo.FindByRoleID(ctx, roleID))
}

func (s *UserRoleService) FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserRoleDTO, error) {
	return toDTOs(s.repo.FindByBranchID(ctx, branchID))
}

func (s *UserRoleService) FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserRoleDTO, error) {
	return toDTOs(s.repo.FindByDistributorID(ctx, distributorID))
}

func toDTOs(urs []UserRole, err error) ([]UserRoleDTO, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to find user roles: %w", err)
	}
	dtos := make([]UserRoleDTO, 0, len(urs))
	for _, ur := range urs {
		dtos = append(dtos, ToDTO(ur))
	}
	return dtos, nil
}

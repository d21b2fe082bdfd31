package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// RoleService provides methods for role management
type RoleService struct {
	repo RoleRepository
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrRoleNotFound, "role", id.String())
}

// FilterRoles returns one page of roles matching req
func (s *RoleService) FilterRoles(ctx context.Context, req filter.Request) (filter.Page[RoleDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[RoleDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[RoleDTO]{}, fmt.Errorf("failed to filter roles: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

// CreateRole adds a new role. Any id in dto is ignored.
func (s *RoleService) CreateRole(ctx context.Context, dto RoleDTO) (RoleDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return RoleDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return RoleDTO{}, fmt.Errorf("failed to create role: %w", err)
	}
	slog.Info("Role created", "id", created.ID, "name", created.Name)
	return ToDTO(created), nil
}

// UpdateRole replaces the role with the given id
func (s *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, dto RoleDTO) (RoleDTO, error) {
	// Check if role exists
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return RoleDTO{}, notFound(id)
		}
		return RoleDTO{}, fmt.Errorf("failed to get role: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return RoleDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return RoleDTO{}, notFound(id)
		}
		return RoleDTO{}, fmt.Errorf("failed to update role: %w", err)
	}
	return ToDTO(updated), nil
}

// DeleteRole removes a role
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get role: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	slog.Info("Role deleted", "id", id)
	return nil
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID) (RoleDTO, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return RoleDTO{}, notFound(id)
		}
		return RoleDTO{}, fmt.Errorf("failed to get role: %w", err)
	}
	return ToDTO(role), nil
}

// GetRoleByName retrieves a role by its unique name
func (s *RoleService) GetRoleByName(ctx context.Context, name string) (RoleDTO, error) {
	role, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return RoleDTO{}, idmerrors.Wrapf(ErrRoleNotFound, idmerrors.ErrCodeNotFound, "role not found with name: %s", name)
		}
		return RoleDTO{}, fmt.Errorf("failed to get role: %w", err)
	}
	return ToDTO(role), nil
}

func (s *RoleService) FindAssignableRoles(ctx context.Context, isAssignable bool) ([]RoleDTO, error) {
	roles, err := s.repo.FindByIsAssignable(ctx, isAssignable)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	return toDTOs(roles), nil
}

func (s *RoleService) FindRolesByScopeType(ctx context.Context, scopeType ScopeType) ([]RoleDTO, error) {
	roles, err := s.repo.FindByScopeType(ctx, scopeType)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	return toDTOs(roles), nil
}

func (s *RoleService) RoleNameExists(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

func toDTOs(roles []Role) []RoleDTO {
	dtos := make([]RoleDTO, 0, len(roles))
	for _, role := range roles {
		dtos = append(dtos, ToDTO(role))
	}
	return dtos
}

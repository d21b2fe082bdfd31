package rolepermission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type RolePermissionService struct {
	repo RolePermissionRepository
}

func NewRolePermissionService(repo RolePermissionRepository) *RolePermissionService {
	return &RolePermissionService{repo: repo}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrRolePermissionNotFound, "role permission", id.String())
}

func (s *RolePermissionService) FilterRolePermissions(ctx context.Context, req filter.Request) (filter.Page[RolePermissionDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[RolePermissionDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[RolePermissionDTO]{}, fmt.Errorf("failed to filter role permissions: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

func (s *RolePermissionService) CreateRolePermission(ctx context.Context, dto RolePermissionDTO) (RolePermissionDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return RolePermissionDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return RolePermissionDTO{}, fmt.Errorf("failed to create role permission: %w", err)
	}
	slog.Info("Permission granted to role", "role_id", created.RoleID, "permission_id", created.PermissionID)
	return ToDTO(created), nil
}

func (s *RolePermissionService) UpdateRolePermission(ctx context.Context, id uuid.UUID, dto RolePermissionDTO) (RolePermissionDTO, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRolePermissionNotFound) {
			return RolePermissionDTO{}, notFound(id)
		}
		return RolePermissionDTO{}, fmt.Errorf("failed to get role permission: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return RolePermissionDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrRolePermissionNotFound) {
			return RolePermissionDTO{}, notFound(id)
		}
		return RolePermissionDTO{}, fmt.Errorf("failed to update role permission: %w", err)
	}
	return ToDTO(updated), nil
}

func (s *RolePermissionService) DeleteRolePermission(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrRolePermissionNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get role permission: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRolePermissionNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete role permission: %w", err)
	}
	return nil
}

func (s *RolePermissionService) GetRolePermission(ctx context.Context, id uuid.UUID) (RolePermissionDTO, error) {
	rp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRolePermissionNotFound) {
			return RolePermissionDTO{}, notFound(id)
		}
		return RolePermissionDTO{}, fmt.Errorf("failed to get role permission: %w", err)
	}
	return ToDTO(rp), nil
}

// ListPermissionsForRole pages through the permissions granted to roleID.
func (s *RolePermissionService) ListPermissionsForRole(ctx context.Context, roleID uuid.UUID, req filter.Request) (filter.Page[RolePermissionDTO], error) {
	return s.FilterRolePermissions(ctx, req.With("roleId", roleID))
}

// AssignPermissionToRole grants permissionID to roleID. Granting the same
// permission twice fails with ALREADY_EXISTS.
func (s *RolePermissionService) AssignPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID, actor *uuid.UUID) (RolePermissionDTO, error) {
	return s.CreateRolePermission(ctx, RolePermissionDTO{
		RoleID:       roleID,
		PermissionID: permissionID,
		CreatedBy:    actor,
		UpdatedBy:    actor,
	})
}

// RemovePermissionFromRole revokes permissionID from roleID.
func (s *RolePermissionService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	n, err := s.repo.DeleteByRoleIDAndPermissionID(ctx, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("failed to remove permission from role: %w", err)
	}
	if n == 0 {
		return idmerrors.Wrapf(ErrRolePermissionNotFound, idmerrors.ErrCodeNotFound,
			"role permission not found for role %s and permission %s", roleID, permissionID)
	}
	slog.Info("Permission revoked from role", "role_id", roleID, "permission_id", permissionID)
	return nil
}

// RemoveAllPermissionsFromRole revokes every permission of roleID and
// reports how many were removed.
func (s *RolePermissionService) RemoveAllPermissionsFromRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByRoleID(ctx, roleID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove permissions from role: %w", err)
	}
	return n, nil
}

func (s *RolePermissionService) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]RolePermissionDTO, error) {
	return toDTOs(s.repo.FindByRoleID(ctx, roleID))
}

func (s *RolePermissionService) FindByPermissionID(ctx context.Context, permissionID uuid.UUID) ([]RolePermissionDTO, error) {
	return toDTOs(s.repo.FindByPermissionID(ctx, permissionID))
}

// HasPermission reports whether roleID holds permissionID.
func (s *RolePermissionService) HasPermission(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error) {
	_, err := s.repo.FindByRoleIDAndPermissionID(ctx, roleID, permissionID)
	if errors.Is(err, ErrRolePermissionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get role permission: %w", err)
	}
	return true, nil
}

func toDTOs(rps []RolePermission, err error) ([]RolePermissionDTO, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to find role permissions: %w", err)
	}
	dtos := make([]RolePermissionDTO, 0, len(rps))
	for _, rp := range rps {
		dtos = append(dtos, ToDTO(rp))
	}
	return dtos, nil
}

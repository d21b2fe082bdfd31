package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type PermissionService struct {
	repo PermissionRepository
}

func NewPermissionService(repo PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrPermissionNotFound, "permission", id.String())
}

func (s *PermissionService) FilterPermissions(ctx context.Context, req filter.Request) (filter.Page[PermissionDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[PermissionDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[PermissionDTO]{}, fmt.Errorf("failed to filter permissions: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

func (s *PermissionService) CreatePermission(ctx context.Context, dto PermissionDTO) (PermissionDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return PermissionDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return PermissionDTO{}, fmt.Errorf("failed to create permission: %w", err)
	}
	slog.Info("Permission created", "id", created.ID, "name", created.Name)
	return ToDTO(created), nil
}

func (s *PermissionService) UpdatePermission(ctx context.Context, id uuid.UUID, dto PermissionDTO) (PermissionDTO, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return PermissionDTO{}, notFound(id)
		}
		return PermissionDTO{}, fmt.Errorf("failed to get permission: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return PermissionDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return PermissionDTO{}, notFound(id)
		}
		return PermissionDTO{}, fmt.Errorf("failed to update permission: %w", err)
	}
	return ToDTO(updated), nil
}

func (s *PermissionService) DeletePermission(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get permission: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	slog.Info("Permission deleted", "id", id)
	return nil
}

func (s *PermissionService) GetPermission(ctx context.Context, id uuid.UUID) (PermissionDTO, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return PermissionDTO{}, notFound(id)
		}
		return PermissionDTO{}, fmt.Errorf("failed to get permission: %w", err)
	}
	return ToDTO(p), nil
}

func (s *PermissionService) GetPermissionByName(ctx context.Context, name string) (PermissionDTO, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return PermissionDTO{}, idmerrors.Wrapf(ErrPermissionNotFound, idmerrors.ErrCodeNotFound, "permission not found with name: %s", name)
		}
		return PermissionDTO{}, fmt.Errorf("failed to get permission: %w", err)
	}
	return ToDTO(p), nil
}

func (s *PermissionService) FindPermissionsByDomain(ctx context.Context, domain string) ([]PermissionDTO, error) {
	permissions, err := s.repo.FindByDomain(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	dtos := make([]PermissionDTO, 0, len(permissions))
	for _, p := range permissions {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos, nil
}

func (s *PermissionService) PermissionNameExists(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

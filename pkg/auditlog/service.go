package auditlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type AuditLogService struct {
	repo AuditLogRepository
}

func NewAuditLogService(repo AuditLogRepository) *AuditLogService {
	return &AuditLogService{repo: repo}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrAuditLogNotFound, "audit log", id.String())
}

func (s *AuditLogService) FilterAuditLogs(ctx context.Context, req filter.Request) (filter.Page[AuditLogDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[AuditLogDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[AuditLogDTO]{}, fmt.Errorf("failed to filter audit logs: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

func (s *AuditLogService) CreateAuditLog(ctx context.Context, dto AuditLogDTO) (AuditLogDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return AuditLogDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return AuditLogDTO{}, fmt.Errorf("failed to create audit log: %w", err)
	}
	return ToDTO(created), nil
}

func (s *AuditLogService) UpdateAuditLog(ctx context.Context, id uuid.UUID, dto AuditLogDTO) (AuditLogDTO, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrAuditLogNotFound) {
			return AuditLogDTO{}, notFound(id)
		}
		return AuditLogDTO{}, fmt.Errorf("failed to get audit log: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return AuditLogDTO{}, err
	}
	entity.ID = id

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrAuditLogNotFound) {
			return AuditLogDTO{}, notFound(id)
		}
		return AuditLogDTO{}, fmt.Errorf("failed to update audit log: %w", err)
	}
	return ToDTO(updated), nil
}

func (s *AuditLogService) DeleteAuditLog(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrAuditLogNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get audit log: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrAuditLogNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete audit log: %w", err)
	}
	return nil
}

func (s *AuditLogService) GetAuditLog(ctx context.Context, id uuid.UUID) (AuditLogDTO, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAuditLogNotFound) {
			return AuditLogDTO{}, notFound(id)
		}
		return AuditLogDTO{}, fmt.Errorf("failed to get audit log: %w", err)
	}
	return ToDTO(a), nil
}

// FindByUser pages through the entries recorded for userID. req supplies
// paging and may narrow the result further.
func (s *AuditLogService) FindByUser(ctx context.Context, userID uuid.UUID, req filter.Request) (filter.Page[AuditLogDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[AuditLogDTO]{}, err
	}
	return toDTOPage(s.repo.FindByUserAccountID(ctx, userID, q))
}

func (s *AuditLogService) FindByAction(ctx context.Context, action string, req filter.Request) (filter.Page[AuditLogDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[AuditLogDTO]{}, err
	}
	return toDTOPage(s.repo.FindByAction(ctx, action, q))
}

// FindByResource pages through the history of one resource instance.
func (s *AuditLogService) FindByResource(ctx context.Context, resource, resourceID string, req filter.Request) (filter.Page[AuditLogDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[AuditLogDTO]{}, err
	}
	return toDTOPage(s.repo.FindByResource(ctx, resource, resourceID, q))
}

func toDTOPage(page filter.Page[AuditLog], err error) (filter.Page[AuditLogDTO], error) {
	if err != nil {
		return filter.Page[AuditLogDTO]{}, fmt.Errorf("failed to find audit logs: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

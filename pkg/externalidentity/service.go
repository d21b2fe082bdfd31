package externalidentity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

type ExternalIdentityService struct {
	repo ExternalIdentityRepository
}

func NewExternalIdentityService(repo ExternalIdentityRepository) *ExternalIdentityService {
	return &ExternalIdentityService{repo: repo}
}

func notFound(id uuid.UUID) error {
	return idmerrors.NotFoundWrap(ErrExternalIdentityNotFound, "external identity", id.String())
}

func (s *ExternalIdentityService) FilterExternalIdentities(ctx context.Context, req filter.Request) (filter.Page[ExternalIdentityDTO], error) {
	q, err := FilterSchema.Compile(req)
	if err != nil {
		return filter.Page[ExternalIdentityDTO]{}, err
	}
	page, err := s.repo.Filter(ctx, q)
	if err != nil {
		return filter.Page[ExternalIdentityDTO]{}, fmt.Errorf("failed to filter external identities: %w", err)
	}
	return filter.MapPage(page, ToDTO), nil
}

func (s *ExternalIdentityService) CreateExternalIdentity(ctx context.Context, dto ExternalIdentityDTO) (ExternalIdentityDTO, error) {
	entity, err := ToEntity(dto)
	if err != nil {
		return ExternalIdentityDTO{}, err
	}
	entity.ID = uuid.Nil

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return ExternalIdentityDTO{}, fmt.Errorf("failed to create external identity: %w", err)
	}
	slog.Info("External identity linked", "user_account_id", created.UserAccountID, "provider", created.Provider)
	return ToDTO(created), nil
}

func (s *ExternalIdentityService) UpdateExternalIdentity(ctx context.Context, id uuid.UUID, dto ExternalIdentityDTO) (ExternalIdentityDTO, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return ExternalIdentityDTO{}, notFound(id)
		}
		return ExternalIdentityDTO{}, fmt.Errorf("failed to get external identity: %w", err)
	}

	entity, err := ToEntity(dto)
	if err != nil {
		return ExternalIdentityDTO{}, err
	}
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	entity.CreatedBy = existing.CreatedBy

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return ExternalIdentityDTO{}, notFound(id)
		}
		return ExternalIdentityDTO{}, fmt.Errorf("failed to update external identity: %w", err)
	}
	return ToDTO(updated), nil
}

func (s *ExternalIdentityService) DeleteExternalIdentity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to get external identity: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to delete external identity: %w", err)
	}
	return nil
}

func (s *ExternalIdentityService) GetExternalIdentity(ctx context.Context, id uuid.UUID) (ExternalIdentityDTO, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return ExternalIdentityDTO{}, notFound(id)
		}
		return ExternalIdentityDTO{}, fmt.Errorf("failed to get external identity: %w", err)
	}
	return ToDTO(e), nil
}

// ListIdentitiesForUser pages through the identities linked to userID.
func (s *ExternalIdentityService) ListIdentitiesForUser(ctx context.Context, userID uuid.UUID, req filter.Request) (filter.Page[ExternalIdentityDTO], error) {
	return s.FilterExternalIdentities(ctx, req.With("userAccountId", userID))
}

// LinkIdentity attaches a provider identity to userID.
func (s *ExternalIdentityService) LinkIdentity(ctx context.Context, userID uuid.UUID, req LinkIdentityRequest, actor *uuid.UUID) (ExternalIdentityDTO, error) {
	primary := req.IsPrimary
	return s.CreateExternalIdentity(ctx, ExternalIdentityDTO{
		UserAccountID: userID,
		Provider:      req.Provider,
		SubjectID:     req.SubjectID,
		Email:         req.Email,
		IsPrimary:     &primary,
		LinkedAt:      req.LinkedAt,
		CreatedBy:     actor,
		UpdatedBy:     actor,
	})
}

// UnlinkIdentity removes identityID only if it belongs to userID.
func (s *ExternalIdentityService) UnlinkIdentity(ctx context.Context, userID, identityID uuid.UUID) error {
	n, err := s.repo.DeleteByUserAccountIDAndID(ctx, userID, identityID)
	if err != nil {
		return fmt.Errorf("failed to unlink external identity: %w", err)
	}
	if n == 0 {
		return notFound(identityID)
	}
	slog.Info("External identity unlinked", "user_account_id", userID, "id", identityID)
	return nil
}

func (s *ExternalIdentityService) UnlinkAllIdentities(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByUserAccountID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink external identities: %w", err)
	}
	return n, nil
}

// ResolveIdentity finds the identity a provider knows as subjectID.
func (s *ExternalIdentityService) ResolveIdentity(ctx context.Context, provider, subjectID string) (ExternalIdentityDTO, error) {
	e, err := s.repo.FindByProviderAndSubjectID(ctx, provider, subjectID)
	if err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return ExternalIdentityDTO{}, idmerrors.Wrapf(ErrExternalIdentityNotFound, idmerrors.ErrCodeNotFound,
				"external identity not found for provider %s and subject %s", provider, subjectID)
		}
		return ExternalIdentityDTO{}, fmt.Errorf("failed to get external identity: %w", err)
	}
	return ToDTO(e), nil
}

func (s *ExternalIdentityService) GetPrimaryIdentity(ctx context.Context, userID uuid.UUID) (ExternalIdentityDTO, error) {
	e, err := s.repo.FindPrimaryByUserAccountID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrExternalIdentityNotFound) {
			return ExternalIdentityDTO{}, idmerrors.Wrapf(ErrExternalIdentityNotFound, idmerrors.ErrCodeNotFound,
				"no primary external identity for user %s", userID)
		}
		return ExternalIdentityDTO{}, fmt.Errorf("failed to get external identity: %w", err)
	}
	return ToDTO(e), nil
}

func (s *ExternalIdentityService) FindByUserAccountID(ctx context.Context, userID uuid.UUID) ([]ExternalIdentityDTO, error) {
	return toDTOs(s.repo.FindByUserAccountID(ctx, userID))
}

func (s *ExternalIdentityService) FindByProvider(ctx context.Context, provider string) ([]ExternalIdentityDTO, error) {
	return toDTOs(s.repo.FindByProvider(ctx, provider))
}

func toDTOs(identities []ExternalIdentity, err error) ([]ExternalIdentityDTO, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to find external identities: %w", err)
	}
	dtos := make([]ExternalIdentityDTO, 0, len(identities))
	for _, e := range identities {
		dtos = append(dtos, ToDTO(e))
	}
	return dtos, nil
}

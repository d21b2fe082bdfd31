package externalidentity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryExternalIdentityRepository implements ExternalIdentityRepository using in-memory storage
type InMemoryExternalIdentityRepository struct {
	mu         sync.RWMutex
	identities map[uuid.UUID]ExternalIdentity
}

func NewInMemoryExternalIdentityRepository() *InMemoryExternalIdentityRepository {
	return &InMemoryExternalIdentityRepository{
		identities: make(map[uuid.UUID]ExternalIdentity),
	}
}

func (r *InMemoryExternalIdentityRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[ExternalIdentity], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.where(func(ExternalIdentity) bool { return true })), nil
}

func (r *InMemoryExternalIdentityRepository) Create(ctx context.Context, e ExternalIdentity) (ExternalIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subjectTaken(e.Provider, e.SubjectID, uuid.Nil) {
		return ExternalIdentity{}, idmerrors.AlreadyExists("external identity", e.Provider+"/"+e.SubjectID)
	}
	now := time.Now().UTC()
	e.ID = uuid.New()
	if e.LinkedAt.IsZero() {
		e.LinkedAt = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	r.identities[e.ID] = e
	return e, nil
}

func (r *InMemoryExternalIdentityRepository) Update(ctx context.Context, e ExternalIdentity) (ExternalIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.identities[e.ID]
	if !ok {
		return ExternalIdentity{}, ErrExternalIdentityNotFound
	}
	if r.subjectTaken(e.Provider, e.SubjectID, e.ID) {
		return ExternalIdentity{}, idmerrors.AlreadyExists("external identity", e.Provider+"/"+e.SubjectID)
	}
	if e.LinkedAt.IsZero() {
		e.LinkedAt = existing.LinkedAt
	}
	e.CreatedAt = existing.CreatedAt
	e.CreatedBy = existing.CreatedBy
	e.UpdatedAt = time.Now().UTC()
	r.identities[e.ID] = e
	return e, nil
}

func (r *InMemoryExternalIdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.identities[id]; !ok {
		return ErrExternalIdentityNotFound
	}
	delete(r.identities, id)
	return nil
}

func (r *InMemoryExternalIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (ExternalIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.identities[id]
	if !ok {
		return ExternalIdentity{}, ErrExternalIdentityNotFound
	}
	return e, nil
}

func (r *InMemoryExternalIdentityRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]ExternalIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(e ExternalIdentity) bool { return e.UserAccountID == userAccountID }), nil
}

func (r *InMemoryExternalIdentityRepository) FindByProvider(ctx context.Context, provider string) ([]ExternalIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(e ExternalIdentity) bool { return e.Provider == provider }), nil
}

func (r *InMemoryExternalIdentityRepository) FindByProviderAndSubjectID(ctx context.Context, provider, subjectID string) (ExternalIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.first(func(e ExternalIdentity) bool { return e.Provider == provider && e.SubjectID == subjectID })
}

func (r *InMemoryExternalIdentityRepository) FindPrimaryByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (ExternalIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.first(func(e ExternalIdentity) bool { return e.UserAccountID == userAccountID && e.IsPrimary })
}

func (r *InMemoryExternalIdentityRepository) DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(e ExternalIdentity) bool { return e.UserAccountID == userAccountID }), nil
}

func (r *InMemoryExternalIdentityRepository) DeleteByUserAccountIDAndID(ctx context.Context, userAccountID, id uuid.UUID) (int64, error) {
	return r.deleteWhere(func(e ExternalIdentity) bool { return e.UserAccountID == userAccountID && e.ID == id }), nil
}

func (r *InMemoryExternalIdentityRepository) deleteWhere(match func(ExternalIdentity) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.identities {
		if match(e) {
			delete(r.identities, id)
			n++
		}
	}
	return n
}

func (r *InMemoryExternalIdentityRepository) first(match func(ExternalIdentity) bool) (ExternalIdentity, error) {
	matches := r.where(match)
	if len(matches) == 0 {
		return ExternalIdentity{}, ErrExternalIdentityNotFound
	}
	return matches[0], nil
}

// where returns matching identities, oldest link first.
func (r *InMemoryExternalIdentityRepository) where(match func(ExternalIdentity) bool) []ExternalIdentity {
	identities := make([]ExternalIdentity, 0)
	for _, e := range r.identities {
		if match(e) {
			identities = append(identities, e)
		}
	}
	sort.Slice(identities, func(i, j int) bool {
		if identities[i].LinkedAt.Equal(identities[j].LinkedAt) {
			return identities[i].ID.String() < identities[j].ID.String()
		}
		return identities[i].LinkedAt.Before(identities[j].LinkedAt)
	})
	return identities
}

func (r *InMemoryExternalIdentityRepository) subjectTaken(provider, subjectID string, except uuid.UUID) bool {
	for id, e := range r.identities {
		if id != except && e.Provider == provider && e.SubjectID == subjectID {
			return true
		}
	}
	return false
}

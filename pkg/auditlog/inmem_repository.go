package auditlog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryAuditLogRepository implements AuditLogRepository using in-memory storage
type InMemoryAuditLogRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]AuditLog
}

func NewInMemoryAuditLogRepository() *InMemoryAuditLogRepository {
	return &InMemoryAuditLogRepository{
		entries: make(map[uuid.UUID]AuditLog),
	}
}

func (r *InMemoryAuditLogRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[AuditLog], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]AuditLog, 0, len(r.entries))
	for _, a := range r.entries {
		entries = append(entries, a)
	}
	return filter.Apply(q, entries), nil
}

func (r *InMemoryAuditLogRepository) Create(ctx context.Context, a AuditLog) (AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.New()
	r.entries[a.ID] = a
	return a, nil
}

func (r *InMemoryAuditLogRepository) Update(ctx context.Context, a AuditLog) (AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[a.ID]; !ok {
		return AuditLog{}, ErrAuditLogNotFound
	}
	r.entries[a.ID] = a
	return a, nil
}

func (r *InMemoryAuditLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrAuditLogNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *InMemoryAuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.entries[id]
	if !ok {
		return AuditLog{}, ErrAuditLogNotFound
	}
	return a, nil
}

func (r *InMemoryAuditLogRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("user_account_id", userAccountID))
}

func (r *InMemoryAuditLogRepository) FindByAction(ctx context.Context, action string, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("action", action))
}

func (r *InMemoryAuditLogRepository) FindByResource(ctx context.Context, resource, resourceID string, q filter.Query) (filter.Page[AuditLog], error) {
	return r.Filter(ctx, q.Where("resource", resource).Where("resource_id", resourceID))
}

package permission

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryPermissionRepository implements PermissionRepository using in-memory storage
type InMemoryPermissionRepository struct {
	mu          sync.RWMutex
	permissions map[uuid.UUID]Permission
}

func NewInMemoryPermissionRepository() *InMemoryPermissionRepository {
	return &InMemoryPermissionRepository{
		permissions: make(map[uuid.UUID]Permission),
	}
}

func (r *InMemoryPermissionRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[Permission], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.all()), nil
}

func (r *InMemoryPermissionRepository) Create(ctx context.Context, p Permission) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(p.Name, uuid.Nil) {
		return Permission{}, idmerrors.AlreadyExists("permission", p.Name)
	}
	now := time.Now().UTC()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.permissions[p.ID] = p
	return p, nil
}

func (r *InMemoryPermissionRepository) Update(ctx context.Context, p Permission) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.permissions[p.ID]
	if !ok {
		return Permission{}, ErrPermissionNotFound
	}
	if r.nameTaken(p.Name, p.ID) {
		return Permission{}, idmerrors.AlreadyExists("permission", p.Name)
	}
	p.CreatedAt = existing.CreatedAt
	p.CreatedBy = existing.CreatedBy
	p.UpdatedAt = time.Now().UTC()
	r.permissions[p.ID] = p
	return p, nil
}

func (r *InMemoryPermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.permissions[id]; !ok {
		return ErrPermissionNotFound
	}
	delete(r.permissions, id)
	return nil
}

func (r *InMemoryPermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.permissions[id]
	if !ok {
		return Permission{}, ErrPermissionNotFound
	}
	return p, nil
}

func (r *InMemoryPermissionRepository) FindByName(ctx context.Context, name string) (Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.permissions {
		if p.Name == name {
			return p, nil
		}
	}
	return Permission{}, ErrPermissionNotFound
}

func (r *InMemoryPermissionRepository) FindByDomain(ctx context.Context, domain string) ([]Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	permissions := make([]Permission, 0)
	for _, p := range r.all() {
		if p.Domain == domain {
			permissions = append(permissions, p)
		}
	}
	return permissions, nil
}

func (r *InMemoryPermissionRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nameTaken(name, uuid.Nil), nil
}

func (r *InMemoryPermissionRepository) all() []Permission {
	permissions := make([]Permission, 0, len(r.permissions))
	for _, p := range r.permissions {
		permissions = append(permissions, p)
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i].Name < permissions[j].Name })
	return permissions
}

func (r *InMemoryPermissionRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, p := range r.permissions {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

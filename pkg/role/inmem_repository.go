package role

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]Role
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles: make(map[uuid.UUID]Role),
	}
}

func (r *InMemoryRoleRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[Role], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.all()), nil
}

func (r *InMemoryRoleRepository) Create(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(role.Name, uuid.Nil) {
		return Role{}, idmerrors.AlreadyExists("role", role.Name)
	}
	now := time.Now().UTC()
	role.ID = uuid.New()
	role.CreatedAt = now
	role.UpdatedAt = now
	r.roles[role.ID] = role
	return role, nil
}

func (r *InMemoryRoleRepository) Update(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.roles[role.ID]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	if r.nameTaken(role.Name, role.ID) {
		return Role{}, idmerrors.AlreadyExists("role", role.Name)
	}
	role.CreatedAt = existing.CreatedAt
	role.CreatedBy = existing.CreatedBy
	role.UpdatedAt = time.Now().UTC()
	r.roles[role.ID] = role
	return role, nil
}

func (r *InMemoryRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[id]; !ok {
		return ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *InMemoryRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

func (r *InMemoryRoleRepository) FindByName(ctx context.Context, name string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, ErrRoleNotFound
}

func (r *InMemoryRoleRepository) FindByIsAssignable(ctx context.Context, isAssignable bool) ([]Role, error) {
	return r.where(func(role Role) bool { return role.IsAssignable == isAssignable }), nil
}

func (r *InMemoryRoleRepository) FindByScopeType(ctx context.Context, scopeType ScopeType) ([]Role, error) {
	return r.where(func(role Role) bool { return role.ScopeType == scopeType }), nil
}

func (r *InMemoryRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nameTaken(name, uuid.Nil), nil
}

func (r *InMemoryRoleRepository) where(match func(Role) bool) []Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0)
	for _, role := range r.all() {
		if match(role) {
			roles = append(roles, role)
		}
	}
	return roles
}

// all returns the roles sorted by name. Callers hold the lock.
func (r *InMemoryRoleRepository) all() []Role {
	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles
}

func (r *InMemoryRoleRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, role := range r.roles {
		if id != except && role.Name == name {
			return true
		}
	}
	return false
}

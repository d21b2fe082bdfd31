package rolepermission

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryRolePermissionRepository implements RolePermissionRepository using
// in-memory storage. Referenced roles and permissions are not checked.
type InMemoryRolePermissionRepository struct {
	mu    sync.RWMutex
	links map[uuid.UUID]RolePermission
}

func NewInMemoryRolePermissionRepository() *InMemoryRolePermissionRepository {
	return &InMemoryRolePermissionRepository{
		links: make(map[uuid.UUID]RolePermission),
	}
}

func (r *InMemoryRolePermissionRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[RolePermission], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.where(func(RolePermission) bool { return true })), nil
}

func (r *InMemoryRolePermissionRepository) Create(ctx context.Context, rp RolePermission) (RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.linked(rp.RoleID, rp.PermissionID, uuid.Nil) {
		return RolePermission{}, idmerrors.AlreadyExists("role permission", rp.RoleID.String()+"/"+rp.PermissionID.String())
	}
	now := time.Now().UTC()
	rp.ID = uuid.New()
	rp.CreatedAt = now
	rp.UpdatedAt = now
	r.links[rp.ID] = rp
	return rp, nil
}

func (r *InMemoryRolePermissionRepository) Update(ctx context.Context, rp RolePermission) (RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.links[rp.ID]
	if !ok {
		return RolePermission{}, ErrRolePermissionNotFound
	}
	if r.linked(rp.RoleID, rp.PermissionID, rp.ID) {
		return RolePermission{}, idmerrors.AlreadyExists("role permission", rp.RoleID.String()+"/"+rp.PermissionID.String())
	}
	rp.CreatedAt = existing.CreatedAt
	rp.CreatedBy = existing.CreatedBy
	rp.UpdatedAt = time.Now().UTC()
	r.links[rp.ID] = rp
	return rp, nil
}

func (r *InMemoryRolePermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[id]; !ok {
		return ErrRolePermissionNotFound
	}
	delete(r.links, id)
	return nil
}

func (r *InMemoryRolePermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rp, ok := r.links[id]
	if !ok {
		return RolePermission{}, ErrRolePermissionNotFound
	}
	return rp, nil
}

func (r *InMemoryRolePermissionRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(rp RolePermission) bool { return rp.RoleID == roleID }), nil
}

func (r *InMemoryRolePermissionRepository) FindByPermissionID(ctx context.Context, permissionID uuid.UUID) ([]RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(rp RolePermission) bool { return rp.PermissionID == permissionID }), nil
}

func (r *InMemoryRolePermissionRepository) FindByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rp := range r.links {
		if rp.RoleID == roleID && rp.PermissionID == permissionID {
			return rp, nil
		}
	}
	return RolePermission{}, ErrRolePermissionNotFound
}

func (r *InMemoryRolePermissionRepository) DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(rp RolePermission) bool { return rp.RoleID == roleID }), nil
}

func (r *InMemoryRolePermissionRepository) DeleteByRoleIDAndPermissionID(ctx context.Context, roleID, permissionID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(rp RolePermission) bool {
		return rp.RoleID == roleID && rp.PermissionID == permissionID
	}), nil
}

func (r *InMemoryRolePermissionRepository) deleteWhere(match func(RolePermission) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, rp := range r.links {
		if match(rp) {
			delete(r.links, id)
			n++
		}
	}
	return n
}

func (r *InMemoryRolePermissionRepository) where(match func(RolePermission) bool) []RolePermission {
	rps := make([]RolePermission, 0)
	for _, rp := range r.links {
		if match(rp) {
			rps = append(rps, rp)
		}
	}
	sort.Slice(rps, func(i, j int) bool {
		if rps[i].CreatedAt.Equal(rps[j].CreatedAt) {
			return rps[i].ID.String() < rps[j].ID.String()
		}
		return rps[i].CreatedAt.Before(rps[j].CreatedAt)
	})
	return rps
}

func (r *InMemoryRolePermissionRepository) linked(roleID, permissionID, except uuid.UUID) bool {
	for id, rp := range r.links {
		if id != except && rp.RoleID == roleID && rp.PermissionID == permissionID {
			return true
		}
	}
	return false
}

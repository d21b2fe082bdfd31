package userrole

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryUserRoleRepository implements UserRoleRepository using in-memory storage
type InMemoryUserRoleRepository struct {
	mu          sync.RWMutex
	assignments map[uuid.UUID]UserRole
}

func NewInMemoryUserRoleRepository() *InMemoryUserRoleRepository {
	return &InMemoryUserRoleRepository{
		assignments: make(map[uuid.UUID]UserRole),
	}
}

func (r *InMemoryUserRoleRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[UserRole], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.where(func(UserRole) bool { return true })), nil
}

func (r *InMemoryUserRoleRepository) Create(ctx context.Context, ur UserRole) (UserRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.assignmentTaken(ur, uuid.Nil) {
		return UserRole{}, duplicateAssignment(ur)
	}
	now := time.Now().UTC()
	ur.ID = uuid.New()
	ur.CreatedAt = now
	ur.UpdatedAt = now
	r.assignments[ur.ID] = ur
	return ur, nil
}

func (r *InMemoryUserRoleRepository) Update(ctx context.Context, ur UserRole) (UserRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.assignments[ur.ID]
	if !ok {
		return UserRole{}, ErrUserRoleNotFound
	}
	if r.assignmentTaken(ur, ur.ID) {
		return UserRole{}, duplicateAssignment(ur)
	}
	ur.CreatedAt = existing.CreatedAt
	ur.CreatedBy = existing.CreatedBy
	ur.UpdatedAt = time.Now().UTC()
	r.assignments[ur.ID] = ur
	return ur, nil
}

func (r *InMemoryUserRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assignments[id]; !ok {
		return ErrUserRoleNotFound
	}
	delete(r.assignments, id)
	return nil
}

func (r *InMemoryUserRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ur, ok := r.assignments[id]
	if !ok {
		return UserRole{}, ErrUserRoleNotFound
	}
	return ur, nil
}

func (r *InMemoryUserRoleRepository) FindByUserAccountID(ctx context.Context, userAccountID uuid.UUID) ([]UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(ur UserRole) bool { return ur.UserAccountID == userAccountID }), nil
}

func (r *InMemoryUserRoleRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(ur UserRole) bool { return ur.RoleID == roleID }), nil
}

func (r *InMemoryUserRoleRepository) FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(ur UserRole) bool { return sameID(ur.BranchID, &branchID) }), nil
}

func (r *InMemoryUserRoleRepository) FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(ur UserRole) bool { return sameID(ur.DistributorID, &distributorID) }), nil
}

func (r *InMemoryUserRoleRepository) FindByAssignment(ctx context.Context, userAccountID, roleID uuid.UUID, branchID, distributorID *uuid.UUID) (UserRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.where(func(ur UserRole) bool {
		return ur.UserAccountID == userAccountID && ur.RoleID == roleID &&
			sameID(ur.BranchID, branchID) && sameID(ur.DistributorID, distributorID)
	})
	if len(matches) == 0 {
		return UserRole{}, ErrUserRoleNotFound
	}
	return matches[len(matches)-1], nil
}

func (r *InMemoryUserRoleRepository) DeleteByUserAccountID(ctx context.Context, userAccountID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(ur UserRole) bool { return ur.UserAccountID == userAccountID }), nil
}

func (r *InMemoryUserRoleRepository) DeleteByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(ur UserRole) bool { return ur.RoleID == roleID }), nil
}

func (r *InMemoryUserRoleRepository) DeleteByUserAccountIDAndRoleID(ctx context.Context, userAccountID, roleID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(ur UserRole) bool {
		return ur.UserAccountID == userAccountID && ur.RoleID == roleID
	}), nil
}

func (r *InMemoryUserRoleRepository) deleteWhere(match func(UserRole) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, ur := range r.assignments {
		if match(ur) {
			delete(r.assignments, id)
			n++
		}
	}
	return n
}

// where returns matching assignments, most recent first.
func (r *InMemoryUserRoleRepository) where(match func(UserRole) bool) []UserRole {
	urs := make([]UserRole, 0)
	for _, ur := range r.assignments {
		if match(ur) {
			urs = append(urs, ur)
		}
	}
	sort.Slice(urs, func(i, j int) bool {
		if urs[i].AssignedAt.Equal(urs[j].AssignedAt) {
			return urs[i].ID.String() < urs[j].ID.String()
		}
		return urs[i].AssignedAt.After(urs[j].AssignedAt)
	})
	return urs
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// assignmentTaken mirrors the unique index on user_roles.
func (r *InMemoryUserRoleRepository) assignmentTaken(ur UserRole, except uuid.UUID) bool {
	for id, existing := range r.assignments {
		if id != except && existing.UserAccountID == ur.UserAccountID && existing.RoleID == ur.RoleID &&
			sameID(existing.BranchID, ur.BranchID) && sameID(existing.DistributorID, ur.DistributorID) {
			return true
		}
	}
	return false
}

func duplicateAssignment(ur UserRole) error {
	return idmerrors.AlreadyExists("user role", ur.UserAccountID.String()+"/"+ur.RoleID.String())
}

package useraccount

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

// InMemoryUserAccountRepository implements UserAccountRepository using in-memory storage
type InMemoryUserAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]UserAccount
}

func NewInMemoryUserAccountRepository() *InMemoryUserAccountRepository {
	return &InMemoryUserAccountRepository{
		accounts: make(map[uuid.UUID]UserAccount),
	}
}

func (r *InMemoryUserAccountRepository) Filter(ctx context.Context, q filter.Query) (filter.Page[UserAccount], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter.Apply(q, r.where(func(UserAccount) bool { return true })), nil
}

func (r *InMemoryUserAccountRepository) Create(ctx context.Context, u UserAccount) (UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email, uuid.Nil) {
		return UserAccount{}, idmerrors.AlreadyExists("user account", u.Email)
	}
	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.accounts[u.ID] = u
	return u, nil
}

func (r *InMemoryUserAccountRepository) Update(ctx context.Context, u UserAccount) (UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[u.ID]
	if !ok {
		return UserAccount{}, ErrUserAccountNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return UserAccount{}, idmerrors.AlreadyExists("user account", u.Email)
	}
	u.CreatedAt = existing.CreatedAt
	u.CreatedBy = existing.CreatedBy
	u.UpdatedAt = time.Now().UTC()
	r.accounts[u.ID] = u
	return u, nil
}

func (r *InMemoryUserAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return ErrUserAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *InMemoryUserAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.accounts[id]
	if !ok {
		return UserAccount{}, ErrUserAccountNotFound
	}
	return u, nil
}

func (r *InMemoryUserAccountRepository) FindByEmail(ctx context.Context, email string) (UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.accounts {
		if u.Email == email {
			return u, nil
		}
	}
	return UserAccount{}, ErrUserAccountNotFound
}

func (r *InMemoryUserAccountRepository) FindByUserType(ctx context.Context, userType UserType) ([]UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(u UserAccount) bool { return u.UserType == userType }), nil
}

func (r *InMemoryUserAccountRepository) FindByIsActive(ctx context.Context, isActive bool) ([]UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(u UserAccount) bool { return u.IsActive == isActive }), nil
}

func (r *InMemoryUserAccountRepository) FindByBranchID(ctx context.Context, branchID uuid.UUID) ([]UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(u UserAccount) bool { return u.BranchID != nil && *u.BranchID == branchID }), nil
}

func (r *InMemoryUserAccountRepository) FindByDistributorID(ctx context.Context, distributorID uuid.UUID) ([]UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.where(func(u UserAccount) bool { return u.DistributorID != nil && *u.DistributorID == distributorID }), nil
}

func (r *InMemoryUserAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(strings.ToLower(email), uuid.Nil), nil
}

// where returns matching accounts ordered by full name. Callers hold the lock.
func (r *InMemoryUserAccountRepository) where(match func(UserAccount) bool) []UserAccount {
	accounts := make([]UserAccount, 0)
	for _, u := range r.accounts {
		if match(u) {
			accounts = append(accounts, u)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].FullName == accounts[j].FullName {
			return accounts[i].ID.String() < accounts[j].ID.String()
		}
		return accounts[i].FullName < accounts[j].FullName
	})
	return accounts
}

func (r *InMemoryUserAccountRepository) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range r.accounts {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

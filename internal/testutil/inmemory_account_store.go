package testutil

import (
	"context"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*account.Account),
	}
}

func (r *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[a.ID]; exists {
		return ierr.NewError("account already exists").
			WithHintf("Account with ID %s already exists", a.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, exists := r.accounts[id]; exists {
		return a, nil
	}
	return nil, ierr.NewError("account not found").
		WithHintf("Account with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[a.ID]; !exists {
		return ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *InMemoryAccountStore) ListByParent(ctx context.Context, parentID string) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*account.Account, 0)
	for _, a := range r.accounts {
		if a.ParentID != nil && *a.ParentID == parentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *InMemoryAccountStore) UpdateParent(ctx context.Context, id string, parentID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.accounts[id]
	if !exists {
		return ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	a.ParentID = parentID
	return nil
}

// TryIncrementActiveCalls mirrors the conditional-update semantics of the SQL
// implementation: check and increment happen under one lock acquisition.
func (r *InMemoryAccountStore) TryIncrementActiveCalls(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.accounts[id]
	if !exists {
		return false, ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if a.ActiveCalls >= a.MaxConcurrentCalls {
		return false, nil
	}
	a.ActiveCalls++
	return true, nil
}

func (r *InMemoryAccountStore) DecrementActiveCalls(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.accounts[id]
	if !exists {
		return false, ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if a.ActiveCalls == 0 {
		return false, nil
	}
	a.ActiveCalls--
	return true, nil
}

func (r *InMemoryAccountStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = make(map[string]*account.Account)
}

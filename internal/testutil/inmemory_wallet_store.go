package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

type InMemoryWalletStore struct {
	mu      sync.RWMutex
	wallets map[string]*wallet.Wallet
}

func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{
		wallets: make(map[string]*wallet.Wallet),
	}
}

func (r *InMemoryWalletStore) Create(ctx context.Context, w *wallet.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wallets[w.AccountID]; exists {
		return ierr.NewError("wallet already exists").
			WithHintf("A wallet already exists for account %s", w.AccountID).
			Mark(ierr.ErrAlreadyExists)
	}
	r.wallets[w.AccountID] = w
	return nil
}

func (r *InMemoryWalletStore) GetByAccountID(ctx context.Context, accountID string) (*wallet.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if w, exists := r.wallets[accountID]; exists {
		return w, nil
	}
	return nil, ierr.NewError("wallet not found").
		WithHintf("No wallet exists for account %s", accountID).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryWalletStore) CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, exists := r.wallets[accountID]
	if !exists {
		return ierr.NewError("wallet not found").
			WithHintf("No wallet exists for account %s", accountID).
			Mark(ierr.ErrNotFound)
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// TryDebitBalance checks and debits under one lock acquisition, matching the
// conditional-update semantics of the SQL implementation.
func (r *InMemoryWalletStore) TryDebitBalance(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, exists := r.wallets[accountID]
	if !exists {
		return false, ierr.NewError("wallet not found").
			WithHintf("No wallet exists for account %s", accountID).
			Mark(ierr.ErrNotFound)
	}
	if w.Balance.LessThan(amount) {
		return false, nil
	}
	w.Balance = w.Balance.Sub(amount)
	return true, nil
}

func (r *InMemoryWalletStore) TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, id := range accountIDs {
		if w, exists := r.wallets[id]; exists {
			total = total.Add(w.Balance)
		}
	}
	return total, nil
}

func (r *InMemoryWalletStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets = make(map[string]*wallet.Wallet)
}

package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/payment"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

type InMemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		payments: make(map[string]*payment.Payment),
	}
}

func (r *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.InvoiceNumber == p.InvoiceNumber {
			return ierr.NewError("invoice number already allocated").
				WithHintf("Invoice number %s is already allocated", p.InvoiceNumber).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	r.payments[p.ID] = p
	return nil
}

func (r *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, exists := r.payments[id]; exists {
		return p, nil
	}
	return nil, ierr.NewError("payment not found").
		WithHintf("Payment with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryPaymentStore) ListByAccount(ctx context.Context, accountID string) ([]*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range r.payments {
		if p.AccountID == accountID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryPaymentStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = make(map[string]*payment.Payment)
}

// InMemorySequenceStore allocates per-year invoice sequence values under a
// single lock, matching the serialization the SQL upsert provides.
type InMemorySequenceStore struct {
	mu     sync.Mutex
	values map[int]int64
}

func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		values: make(map[int]int64),
	}
}

func (r *InMemorySequenceStore) NextValue(ctx context.Context, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[year]++
	return r.values[year], nil
}

func (r *InMemorySequenceStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = make(map[int]int64)
}

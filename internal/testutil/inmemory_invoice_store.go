package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/invoice"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

type InMemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]*invoice.Invoice
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		invoices: make(map[string]*invoice.Invoice),
	}
}

func (r *InMemoryInvoiceStore) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.invoices[inv.ID]; exists {
		return ierr.NewError("invoice already exists").
			WithHintf("Invoice with ID %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if inv, exists := r.invoices[id]; exists {
		return inv, nil
	}
	return nil, ierr.NewError("invoice not found").
		WithHintf("Invoice with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryInvoiceStore) ListByAccount(ctx context.Context, accountID string) ([]*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.AccountID == accountID {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryInvoiceStore) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, exists := r.invoices[id]
	if !exists {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	inv.InvoiceStatus = status
	return nil
}

func (r *InMemoryInvoiceStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = make(map[string]*invoice.Invoice)
}

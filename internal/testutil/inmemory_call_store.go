package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/call"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

type InMemoryCallStore struct {
	mu    sync.RWMutex
	calls map[string]*call.Call
}

func NewInMemoryCallStore() *InMemoryCallStore {
	return &InMemoryCallStore{
		calls: make(map[string]*call.Call),
	}
}

func (r *InMemoryCallStore) Create(ctx context.Context, c *call.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calls[c.ID]; exists {
		return ierr.NewError("call already exists").
			WithHintf("Call with ID %s already exists", c.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	r.calls[c.ID] = c
	return nil
}

func (r *InMemoryCallStore) Get(ctx context.Context, id string) (*call.Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, exists := r.calls[id]; exists {
		return c, nil
	}
	return nil, ierr.NewError("call not found").
		WithHintf("Call with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryCallStore) ListUnbilledAnswered(ctx context.Context, accountID string, start, end time.Time) ([]*call.Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*call.Call, 0)
	for _, c := range r.calls {
		if c.AccountID != accountID || c.Billed || c.CallStatus != types.CallStatusAnswered {
			continue
		}
		if c.StartedAt.Before(start) || c.StartedAt.After(end) {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}

func (r *InMemoryCallStore) MarkBilled(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		c, exists := r.calls[id]
		if !exists {
			return ierr.NewError("billed flag update count mismatch").
				WithHintf("Call with ID %s was not found", id).
				Mark(ierr.ErrIntegrity)
		}
		c.Billed = true
	}
	return nil
}

func (r *InMemoryCallStore) UsageTotalsSince(ctx context.Context, accountIDs []string, since time.Time) (*call.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		ids[id] = true
	}

	totals := &call.UsageTotals{
		Minutes: decimal.Zero,
		Cost:    decimal.Zero,
	}
	for _, c := range r.calls {
		if !ids[c.AccountID] || c.CallStatus != types.CallStatusAnswered || c.StartedAt.Before(since) {
			continue
		}
		totals.Calls++
		totals.Minutes = totals.Minutes.Add(c.Minutes())
		totals.Cost = totals.Cost.Add(c.Cost)
	}
	return totals, nil
}

func (r *InMemoryCallStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make(map[string]*call.Call)
}

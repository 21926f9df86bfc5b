package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/rate"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

type InMemoryRateStore struct {
	mu    sync.RWMutex
	rates map[string]*rate.Rate
}

func NewInMemoryRateStore() *InMemoryRateStore {
	return &InMemoryRateStore{
		rates: make(map[string]*rate.Rate),
	}
}

func (r *InMemoryRateStore) Create(ctx context.Context, rt *rate.Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rates {
		if existing.Code == rt.Code {
			return ierr.NewError("rate code already exists").
				WithHintf("A rate with code %s already exists", rt.Code).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	r.rates[rt.ID] = rt
	return nil
}

func (r *InMemoryRateStore) Get(ctx context.Context, id string) (*rate.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, exists := r.rates[id]; exists {
		return rt, nil
	}
	return nil, ierr.NewError("rate not found").
		WithHintf("Rate with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryRateStore) List(ctx context.Context) ([]*rate.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*rate.Rate, 0, len(r.rates))
	for _, rt := range r.rates {
		result = append(result, rt)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *InMemoryRateStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates = make(map[string]*rate.Rate)
}

package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/voxbill/voxbill/internal/domain/plan"
	ierr "github.com/voxbill/voxbill/internal/errors"
)

type InMemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*plan.Plan
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		plans: make(map[string]*plan.Plan),
	}
}

func (r *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plans {
		if existing.Name == p.Name {
			return ierr.NewError("plan name already exists").
				WithHintf("A plan named %s already exists", p.Name).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	r.plans[p.ID] = p
	return nil
}

func (r *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, exists := r.plans[id]; exists {
		return p, nil
	}
	return nil, ierr.NewError("plan not found").
		WithHintf("Plan with ID %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryPlanStore) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plans {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ierr.NewError("plan not found").
		WithHintf("Plan named %s was not found", name).
		Mark(ierr.ErrNotFound)
}

func (r *InMemoryPlanStore) GetPredefinedDefault(ctx context.Context) (*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]*plan.Plan, 0)
	for _, p := range r.plans {
		if p.IsPredefined && p.IsActive {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, ierr.NewError("predefined default plan not found").
			WithHint("The platform's 0%-markup default plan is not seeded").
			Mark(ierr.ErrNotFound)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

func (r *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*plan.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *InMemoryPlanStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = make(map[string]*plan.Plan)
}

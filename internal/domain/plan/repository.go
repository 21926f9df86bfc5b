package plan

import (
	"context"
)

// Repository defines the interface for pricing plan persistence operations
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	// GetPredefinedDefault returns the platform-seeded 0%-markup plan used
	// when an account has no plan assigned.
	GetPredefinedDefault(ctx context.Context) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}

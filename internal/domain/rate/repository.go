package rate

import (
	"context"
)

// Repository defines the interface for cost catalog persistence operations
type Repository interface {
	Create(ctx context.Context, r *Rate) error
	Get(ctx context.Context, id string) (*Rate, error)
	// List returns all published catalog entries ordered by destination name.
	List(ctx context.Context) ([]*Rate, error)
}

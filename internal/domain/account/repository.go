package account

import (
	"context"
)

// Repository defines the interface for account persistence operations
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, a *Account) error
	ListByParent(ctx context.Context, parentID string) ([]*Account, error)
	UpdateParent(ctx context.Context, id string, parentID *string) error

	// TryIncrementActiveCalls performs the admission check and the increment
	// as one atomic conditional update on the capacity holder's row
	// (active_calls < max_concurrent_calls). Returns false when the holder
	// is at capacity.
	TryIncrementActiveCalls(ctx context.Context, id string) (bool, error)

	// DecrementActiveCalls decrements the holder's counter, clamping at
	// zero. Returns false when the counter was already zero.
	DecrementActiveCalls(ctx context.Context, id string) (bool, error)
}

package postgres

import "context"

// IClient is the slice of DB behavior services depend on. Tests substitute a
// pass-through implementation since in-memory stores are individually atomic.
type IClient interface {
	// WithTx wraps the given function in a transaction
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ IClient = (*DB)(nil)

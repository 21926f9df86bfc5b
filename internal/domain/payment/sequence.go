package payment

import (
	"context"
	"time"
)

// InvoiceSequence is the per-year counter behind INV-<year>-<seq> numbers.
// Allocation is a single serializing point shared across all accounts; two
// concurrent top-ups must never draw the same value.
type InvoiceSequence struct {
	ID        string    `db:"id"`
	TenantID  string    `db:"tenant_id"`
	Year      int       `db:"year"`
	LastValue int64     `db:"last_value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SequenceRepository allocates invoice sequence values.
type SequenceRepository interface {
	// NextValue atomically increments and returns the sequence for the
	// year, starting at 1 for a year's first allocation.
	NextValue(ctx context.Context, year int) (int64, error)
}

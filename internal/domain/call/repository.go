package call

import (
	"context"
	"time"
)

// Repository defines the interface for usage record persistence operations
type Repository interface {
	Create(ctx context.Context, c *Call) error
	Get(ctx context.Context, id string) (*Call, error)

	// ListUnbilledAnswered returns unbilled answered calls for the account
	// with a start time inside [start, end]. When called inside a
	// transaction the rows are claimed (SELECT ... FOR UPDATE) so two
	// billing runs for the same account and period serialize.
	ListUnbilledAnswered(ctx context.Context, accountID string, start, end time.Time) ([]*Call, error)

	// MarkBilled sets the billed flag on the given records in one bulk
	// update. Callers run it in the same transaction as invoice creation.
	MarkBilled(ctx context.Context, ids []string) error

	// UsageTotalsSince aggregates answered-call usage for the given
	// accounts from the given instant. Returns explicit zeros for empty
	// account sets.
	UsageTotalsSince(ctx context.Context, accountIDs []string, since time.Time) (*UsageTotals, error)
}

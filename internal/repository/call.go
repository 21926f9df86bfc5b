package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/call"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type callRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCallRepository(db *postgres.DB, logger *logger.Logger) call.Repository {
	return &callRepository{db: db, logger: logger}
}

const callColumns = `id, account_id, src, dst, started_at, duration_seconds,
	cost, call_status, billed,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *callRepository) Create(ctx context.Context, c *call.Call) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO calls (`+callColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		c.ID, c.AccountID, c.Src, c.Dst, c.StartedAt, c.DurationSeconds,
		c.Cost, c.CallStatus, c.Billed,
		c.TenantID, c.Status, c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create call record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *callRepository) Get(ctx context.Context, id string) (*call.Call, error) {
	q := r.db.GetQuerier(ctx)
	var c call.Call
	err := q.GetContext(ctx, &c, `
		SELECT `+callColumns+` FROM calls
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("call not found").
			WithHintf("Call with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get call").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

// ListUnbilledAnswered claims the selected rows with FOR UPDATE when run
// inside a transaction, so two billing runs for the same account and period
// serialize on the row locks instead of double-selecting.
func (r *callRepository) ListUnbilledAnswered(ctx context.Context, accountID string, start, end time.Time) ([]*call.Call, error) {
	q := r.db.GetQuerier(ctx)
	calls := make([]*call.Call, 0)
	query := `
		SELECT ` + callColumns + ` FROM calls
		WHERE account_id = $1 AND tenant_id = $2 AND status = $3
		  AND billed = FALSE AND call_status = $4
		  AND started_at >= $5 AND started_at <= $6
		ORDER BY started_at`
	if _, inTx := postgres.GetTx(ctx); inTx {
		query += ` FOR UPDATE`
	}
	err := q.SelectContext(ctx, &calls, query,
		accountID, types.GetTenantID(ctx), types.StatusPublished,
		types.CallStatusAnswered, start, end,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list unbilled calls").
			Mark(ierr.ErrDatabase)
	}
	return calls, nil
}

func (r *callRepository) MarkBilled(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE calls SET billed = TRUE, updated_at = $1
		WHERE id = ANY($2) AND tenant_id = $3`,
		time.Now().UTC(), pq.Array(ids), types.GetTenantID(ctx),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to mark calls billed").
			Mark(ierr.ErrDatabase)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read update result").
			Mark(ierr.ErrDatabase)
	}
	if affected != int64(len(ids)) {
		return ierr.NewError("billed flag update count mismatch").
			WithReportableDetails(map[string]any{
				"expected": len(ids),
				"updated":  affected,
			}).
			Mark(ierr.ErrIntegrity)
	}
	return nil
}

func (r *callRepository) UsageTotalsSince(ctx context.Context, accountIDs []string, since time.Time) (*call.UsageTotals, error) {
	totals := &call.UsageTotals{
		Minutes: decimal.Zero,
		Cost:    decimal.Zero,
	}
	if len(accountIDs) == 0 {
		return totals, nil
	}

	q := r.db.GetQuerier(ctx)
	err := q.GetContext(ctx, totals, `
		SELECT
			COUNT(*) AS calls,
			COALESCE(ROUND(SUM(duration_seconds)::numeric / 60, 5), 0) AS minutes,
			COALESCE(SUM(cost), 0) AS cost
		FROM calls
		WHERE account_id = ANY($1) AND tenant_id = $2 AND status = $3
		  AND call_status = $4 AND started_at >= $5`,
		pq.Array(accountIDs), types.GetTenantID(ctx), types.StatusPublished,
		types.CallStatusAnswered, since,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to aggregate call usage").
			Mark(ierr.ErrDatabase)
	}
	return totals, nil
}

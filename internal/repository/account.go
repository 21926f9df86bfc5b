package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

const accountColumns = `id, name, role, parent_id, reseller_id, max_concurrent_calls,
	active_calls, billing_type, channel_rate, plan_id, country_code, tax_number,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		a.ID, a.Name, a.Role, a.ParentID, a.ResellerID, a.MaxConcurrentCalls,
		a.ActiveCalls, a.BillingType, a.ChannelRate, a.PlanID, a.CountryCode, a.TaxNumber,
		a.TenantID, a.Status, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create account").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	q := r.db.GetQuerier(ctx)
	var a account.Account
	err := q.GetContext(ctx, &a, `
		SELECT `+accountColumns+` FROM accounts
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("account not found").
			WithHintf("Account with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}
	return &a, nil
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts SET
			name = $1, role = $2, parent_id = $3, reseller_id = $4,
			max_concurrent_calls = $5, billing_type = $6, channel_rate = $7,
			plan_id = $8, country_code = $9, tax_number = $10,
			updated_at = $11, updated_by = $12
		WHERE id = $13 AND tenant_id = $14 AND status = $15`,
		a.Name, a.Role, a.ParentID, a.ResellerID,
		a.MaxConcurrentCalls, a.BillingType, a.ChannelRate,
		a.PlanID, a.CountryCode, a.TaxNumber,
		time.Now().UTC(), types.GetUserID(ctx),
		a.ID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, "account", a.ID)
}

func (r *accountRepository) ListByParent(ctx context.Context, parentID string) ([]*account.Account, error) {
	q := r.db.GetQuerier(ctx)
	accounts := make([]*account.Account, 0)
	err := q.SelectContext(ctx, &accounts, `
		SELECT `+accountColumns+` FROM accounts
		WHERE parent_id = $1 AND tenant_id = $2 AND status = $3
		ORDER BY created_at`,
		parentID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list accounts by parent").
			Mark(ierr.ErrDatabase)
	}
	return accounts, nil
}

func (r *accountRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts SET parent_id = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status = $6`,
		parentID, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account parent").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, "account", id)
}

// TryIncrementActiveCalls runs the admission check and the increment as one
// conditional update, so concurrent admissions against the same holder can
// never overshoot the configured maximum.
func (r *accountRepository) TryIncrementActiveCalls(ctx context.Context, id string) (bool, error) {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts SET active_calls = active_calls + 1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND status = $4
		  AND active_calls < max_concurrent_calls`,
		time.Now().UTC(), id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to increment active calls").
			Mark(ierr.ErrDatabase)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to read update result").
			Mark(ierr.ErrDatabase)
	}
	return affected == 1, nil
}

// DecrementActiveCalls saturates at zero; a refused decrement surfaces as
// false so the caller can log the anomaly.
func (r *accountRepository) DecrementActiveCalls(ctx context.Context, id string) (bool, error) {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts SET active_calls = active_calls - 1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND status = $4
		  AND active_calls > 0`,
		time.Now().UTC(), id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to decrement active calls").
			Mark(ierr.ErrDatabase)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to read update result").
			Mark(ierr.ErrDatabase)
	}
	return affected == 1, nil
}

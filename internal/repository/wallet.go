package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type walletRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewWalletRepository(db *postgres.DB, logger *logger.Logger) wallet.Repository {
	return &walletRepository{db: db, logger: logger}
}

const walletColumns = `id, account_id, currency, balance,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.AccountID, w.Currency, w.Balance,
		w.TenantID, w.Status, w.CreatedAt, w.UpdatedAt, w.CreatedBy, w.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A wallet already exists for account %s", w.AccountID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create wallet").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *walletRepository) GetByAccountID(ctx context.Context, accountID string) (*wallet.Wallet, error) {
	q := r.db.GetQuerier(ctx)
	var w wallet.Wallet
	err := q.GetContext(ctx, &w, `
		SELECT `+walletColumns+` FROM wallets
		WHERE account_id = $1 AND tenant_id = $2 AND status = $3`,
		accountID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("wallet not found").
			WithHintf("No wallet exists for account %s", accountID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get wallet").
			Mark(ierr.ErrDatabase)
	}
	return &w, nil
}

func (r *walletRepository) CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = $2
		WHERE account_id = $3 AND tenant_id = $4 AND status = $5`,
		amount, time.Now().UTC(), accountID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to credit wallet").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, "wallet", accountID)
}

// TryDebitBalance debits only when the balance covers the amount, in one
// conditional update, so concurrent deductions cannot interleave into a
// negative balance.
func (r *walletRepository) TryDebitBalance(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE wallets SET balance = balance - $1, updated_at = $2
		WHERE account_id = $3 AND tenant_id = $4 AND status = $5
		  AND balance >= $1`,
		amount, time.Now().UTC(), accountID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to debit wallet").
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

func (r *walletRepository) TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, nil
	}

	q := r.db.GetQuerier(ctx)
	var total decimal.Decimal
	err := q.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(balance), 0) FROM wallets
		WHERE account_id = ANY($1) AND tenant_id = $2 AND status = $3`,
		pq.Array(accountIDs), types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Failed to sum wallet balances").
			Mark(ierr.ErrDatabase)
	}
	return total, nil
}

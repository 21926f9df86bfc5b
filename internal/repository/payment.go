package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/voxbill/voxbill/internal/domain/payment"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

const paymentColumns = `id, account_id, amount, tax_amount, total_paid, tax_type,
	method, invoice_number, external_ref,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.AccountID, p.Amount, p.TaxAmount, p.TotalPaid, p.TaxType,
		p.Method, p.InvoiceNumber, p.ExternalRef,
		p.TenantID, p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Invoice number %s is already allocated", p.InvoiceNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	q := r.db.GetQuerier(ctx)
	var p payment.Payment
	err := q.GetContext(ctx, &p, `
		SELECT `+paymentColumns+` FROM payments
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID string) ([]*payment.Payment, error) {
	q := r.db.GetQuerier(ctx)
	payments := make([]*payment.Payment, 0)
	err := q.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+` FROM payments
		WHERE account_id = $1 AND tenant_id = $2 AND status = $3
		ORDER BY created_at DESC`,
		accountID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

type sequenceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSequenceRepository(db *postgres.DB, logger *logger.Logger) payment.SequenceRepository {
	return &sequenceRepository{db: db, logger: logger}
}

// NextValue allocates the next per-year invoice sequence value with a single
// upsert, so concurrent top-ups in the same year serialize on the row and
// can never draw the same number.
func (r *sequenceRepository) NextValue(ctx context.Context, year int) (int64, error) {
	q := r.db.GetQuerier(ctx)
	var value int64
	now := time.Now().UTC()
	err := q.GetContext(ctx, &value, `
		INSERT INTO payment_sequences (id, tenant_id, year, last_value, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (tenant_id, year)
		DO UPDATE SET last_value = payment_sequences.last_value + 1, updated_at = $4
		RETURNING last_value`,
		types.GenerateUUID(), types.GetTenantID(ctx), year, now,
	)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to allocate invoice sequence").
			Mark(ierr.ErrDatabase)
	}
	return value, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/voxbill/voxbill/internal/domain/invoice"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, account_id, period_start, period_end, total,
	invoice_status, due_date,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

const lineItemColumns = `id, invoice_id, description, quantity, unit_price, total,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		inv.ID, inv.AccountID, inv.PeriodStart, inv.PeriodEnd, inv.Total,
		inv.InvoiceStatus, inv.DueDate,
		inv.TenantID, inv.Status, inv.CreatedAt, inv.UpdatedAt,
		inv.CreatedBy, inv.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}

	for _, li := range inv.LineItems {
		_, err := q.ExecContext(ctx, `
			INSERT INTO invoice_line_items (`+lineItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			li.ID, li.InvoiceID, li.Description, li.Quantity, li.UnitPrice, li.Total,
			li.TenantID, li.Status, li.CreatedAt, li.UpdatedAt,
			li.CreatedBy, li.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice line item").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	q := r.db.GetQuerier(ctx)
	var inv invoice.Invoice
	err := q.GetContext(ctx, &inv, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	lineItems := make([]*invoice.LineItem, 0)
	err = q.SelectContext(ctx, &lineItems, `
		SELECT `+lineItemColumns+` FROM invoice_line_items
		WHERE invoice_id = $1 AND tenant_id = $2 AND status = $3
		ORDER BY description`,
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice line items").
			Mark(ierr.ErrDatabase)
	}
	inv.LineItems = lineItems
	return &inv, nil
}

func (r *invoiceRepository) ListByAccount(ctx context.Context, accountID string) ([]*invoice.Invoice, error) {
	q := r.db.GetQuerier(ctx)
	invoices := make([]*invoice.Invoice, 0)
	err := q.SelectContext(ctx, &invoices, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE account_id = $1 AND tenant_id = $2 AND status = $3
		ORDER BY created_at DESC`,
		accountID, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE invoices SET invoice_status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND tenant_id = $5 AND status = $6`,
		status, time.Now().UTC(), types.GetUserID(ctx),
		id, types.GetTenantID(ctx), types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice status").
			Mark(ierr.ErrDatabase)
	}
	return requireRow(res, "invoice", id)
}

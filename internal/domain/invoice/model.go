package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Invoice is a generated billing artifact. Created only by the billing
// generator; immutable thereafter except status transitions driven by
// payment confirmation.
type Invoice struct {
	ID            string              `db:"id" json:"id"`
	AccountID     string              `db:"account_id" json:"account_id"`
	PeriodStart   time.Time           `db:"period_start" json:"period_start"`
	PeriodEnd     time.Time           `db:"period_end" json:"period_end"`
	Total         decimal.Decimal     `db:"total" json:"total"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	DueDate       time.Time           `db:"due_date" json:"due_date"`

	// LineItems are owned by the invoice and share its lifetime.
	LineItems []*LineItem `json:"line_items,omitempty"`

	types.BaseModel
}

func (i *Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) Validate() error {
	if i.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}
	if i.PeriodEnd.Before(i.PeriodStart) {
		return ierr.NewError("period end is before period start").
			WithHint("Invoice period end must not precede its start").
			Mark(ierr.ErrValidation)
	}
	return nil
}

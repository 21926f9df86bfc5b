package payment

import (
	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Payment is an immutable record of a confirmed top-up. The wallet is
// credited by Amount only; TaxAmount is remitted, not banked.
type Payment struct {
	ID            string              `db:"id" json:"id"`
	AccountID     string              `db:"account_id" json:"account_id"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	TaxAmount     decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	TotalPaid     decimal.Decimal     `db:"total_paid" json:"total_paid"`
	TaxType       types.TaxType       `db:"tax_type" json:"tax_type"`
	Method        types.PaymentMethod `db:"method" json:"method"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	// ExternalRef is the transaction reference supplied by the payment
	// gateway adapter, when one exists.
	ExternalRef *string `db:"external_ref" json:"external_ref,omitempty"`

	types.BaseModel
}

func (p *Payment) TableName() string {
	return "payments"
}

func (p *Payment) Validate() error {
	if p.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Top-up amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if !p.Method.Validate() {
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method must be one of card, bank_transfer, offline, got %s", p.Method).
			Mark(ierr.ErrValidation)
	}
	return nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/payment"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// TopUpRequest represents a confirmed top-up delivered by the payment
// gateway adapter. Amount is the confirmed base amount; tax is computed on
// top of it and remitted, never credited to the wallet.
type TopUpRequest struct {
	AccountID   string              `json:"account_id" validate:"required"`
	Amount      decimal.Decimal     `json:"amount"`
	Method      types.PaymentMethod `json:"method" validate:"required"`
	ExternalRef *string             `json:"external_ref,omitempty"`
}

func (r *TopUpRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Top-up amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if !r.Method.Validate() {
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method must be one of card, bank_transfer, offline, got %s", r.Method).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DeductRequest represents a usage deduction against the wallet balance.
// Deductions are ledger-only; no payment record is created.
type DeductRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r *DeductRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Deduction amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DeductResponse reports whether the deduction was applied. Insufficient
// funds is an expected refusal, not an error.
type DeductResponse struct {
	AccountID string `json:"account_id"`
	Deducted  bool   `json:"deducted"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func FromWallet(w *wallet.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		AccountID: w.AccountID,
		Currency:  w.Currency,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// PaymentResponse represents a recorded top-up in API responses
type PaymentResponse struct {
	ID            string              `json:"id"`
	AccountID     string              `json:"account_id"`
	Amount        decimal.Decimal     `json:"amount"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	TotalPaid     decimal.Decimal     `json:"total_paid"`
	TaxType       types.TaxType       `json:"tax_type"`
	Method        types.PaymentMethod `json:"method"`
	InvoiceNumber string              `json:"invoice_number"`
	ExternalRef   *string             `json:"external_ref,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func FromPayment(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		AccountID:     p.AccountID,
		Amount:        p.Amount,
		TaxAmount:     p.TaxAmount,
		TotalPaid:     p.TotalPaid,
		TaxType:       p.TaxType,
		Method:        p.Method,
		InvoiceNumber: p.InvoiceNumber,
		ExternalRef:   p.ExternalRef,
		CreatedAt:     p.CreatedAt,
	}
}

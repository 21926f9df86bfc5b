package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/invoice"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// GenerateInvoiceRequest triggers invoice generation for one account and
// billing period. Re-running a fully billed period is a safe no-op.
type GenerateInvoiceRequest struct {
	AccountID   string    `json:"account_id" validate:"required"`
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PeriodEnd.Before(r.PeriodStart) {
		return ierr.NewError("period end is before period start").
			WithHint("Billing period end must not precede its start").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceLineItemResponse represents one destination group on an invoice
type InvoiceLineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string                     `json:"id"`
	AccountID     string                     `json:"account_id"`
	PeriodStart   time.Time                  `json:"period_start"`
	PeriodEnd     time.Time                  `json:"period_end"`
	Total         decimal.Decimal            `json:"total"`
	InvoiceStatus types.InvoiceStatus        `json:"invoice_status"`
	DueDate       time.Time                  `json:"due_date"`
	LineItems     []*InvoiceLineItemResponse `json:"line_items"`
	CreatedAt     time.Time                  `json:"created_at"`
}

func FromInvoice(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		AccountID:     inv.AccountID,
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		Total:         inv.Total,
		InvoiceStatus: inv.InvoiceStatus,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
		LineItems: lo.Map(inv.LineItems, func(li *invoice.LineItem, _ int) *InvoiceLineItemResponse {
			return &InvoiceLineItemResponse{
				ID:          li.ID,
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				Total:       li.Total,
			}
		}),
	}
}

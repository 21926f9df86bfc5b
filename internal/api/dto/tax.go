package dto

import (
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/types"
)

// TaxBreakdownResponse is the deterministic result of a tax calculation.
type TaxBreakdownResponse struct {
	JurisdictionCode string          `json:"jurisdiction_code,omitempty"`
	Rate             decimal.Decimal `json:"rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TaxType          types.TaxType   `json:"tax_type"`
}

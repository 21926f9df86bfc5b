package invoice

import (
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/types"
)

// LineItem is one destination group on an invoice. Quantity is minutes at
// 5-decimal precision; UnitPrice is a derived average (total cost divided by
// minutes), the per-call costs summed into Total stay authoritative.
type LineItem struct {
	ID          string          `db:"id" json:"id"`
	InvoiceID   string          `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Total       decimal.Decimal `db:"total" json:"total"`

	types.BaseModel
}

func (li *LineItem) TableName() string {
	return "invoice_line_items"
}

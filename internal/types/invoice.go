package types

import "fmt"

// InvoiceStatus is the payment state of a generated invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// FormatInvoiceNumber renders the platform invoice number for a given year
// and per-year sequence value, e.g. INV-2026-000042.
func FormatInvoiceNumber(year int, sequence int64) string {
	return fmt.Sprintf("INV-%d-%06d", year, sequence)
}

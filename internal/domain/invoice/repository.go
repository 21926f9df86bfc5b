package invoice

import (
	"context"

	"github.com/voxbill/voxbill/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// CreateWithLineItems persists the invoice and its line items together.
	// Callers run it inside the billing transaction.
	CreateWithLineItems(ctx context.Context, inv *Invoice) error
	// Get returns the invoice with its line items loaded.
	Get(ctx context.Context, id string) (*Invoice, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Invoice, error)
	UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error
}

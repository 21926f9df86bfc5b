package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for wallet persistence operations
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByAccountID(ctx context.Context, accountID string) (*Wallet, error)

	// CreditBalance atomically adds amount to the wallet balance.
	CreditBalance(ctx context.Context, accountID string, amount decimal.Decimal) error

	// TryDebitBalance atomically subtracts amount when the balance covers
	// it. Returns false, untouched, when funds are insufficient.
	TryDebitBalance(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error)

	// TotalBalance sums balances across the given accounts. Returns an
	// explicit zero for an empty set.
	TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error)
}

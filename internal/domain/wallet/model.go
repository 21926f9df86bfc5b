package wallet

import (
	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Wallet holds an account's pre-paid balance. One wallet per account,
// lazily created on first access.
type Wallet struct {
	ID        string          `db:"id" json:"id"`
	AccountID string          `db:"account_id" json:"account_id"`
	Currency  string          `db:"currency" json:"currency"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`

	types.BaseModel
}

func (w *Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) Validate() error {
	if w.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}
	if w.Balance.IsNegative() {
		return ierr.NewError("balance cannot be negative").
			WithReportableDetails(map[string]any{
				"balance": w.Balance,
			}).
			Mark(ierr.ErrIntegrity)
	}
	return nil
}

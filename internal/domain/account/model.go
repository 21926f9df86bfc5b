package account

import (
	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Account is a node in the tenant tree (Reseller -> Company -> User).
// The parent chain must stay acyclic and terminate at a Reseller or at a
// node without a parent; CanReparent is the sole gate enforcing that.
type Account struct {
	ID   string            `db:"id" json:"id"`
	Name string            `db:"name" json:"name"`
	Role types.AccountRole `db:"role" json:"role"`

	// ParentID links the node into the tree; nil for top-level nodes.
	ParentID *string `db:"parent_id" json:"parent_id,omitempty"`
	// ResellerID caches the reseller root of the subtree when known.
	ResellerID *string `db:"reseller_id" json:"reseller_id,omitempty"`

	// Capacity counters. A user under a company draws from the company's
	// pool, so these fields are only authoritative on the capacity holder.
	MaxConcurrentCalls int `db:"max_concurrent_calls" json:"max_concurrent_calls"`
	ActiveCalls        int `db:"active_calls" json:"active_calls"`

	BillingType types.BillingType `db:"billing_type" json:"billing_type"`
	ChannelRate decimal.Decimal   `db:"channel_rate" json:"channel_rate"`
	PlanID      *string           `db:"plan_id" json:"plan_id,omitempty"`

	// Jurisdiction inputs for the tax calculator.
	CountryCode string `db:"country_code" json:"country_code"`
	TaxNumber   string `db:"tax_number" json:"tax_number"`

	types.BaseModel
}

func (a *Account) TableName() string {
	return "accounts"
}

func (a *Account) Validate() error {
	if a.Name == "" {
		return ierr.NewError("account name is required").
			WithHint("Account name is required").
			Mark(ierr.ErrValidation)
	}
	if !a.Role.Validate() {
		return ierr.NewError("invalid account role").
			WithHintf("Role must be one of user, company, reseller, got %s", a.Role).
			Mark(ierr.ErrValidation)
	}
	if a.MaxConcurrentCalls < 0 {
		return ierr.NewError("max concurrent calls cannot be negative").
			WithHint("Max concurrent calls must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCompanyUser reports whether the account is a user pooled under a company,
// given its already-resolved parent.
func (a *Account) IsCompanyUser(parent *Account) bool {
	return a.Role == types.AccountRoleUser &&
		parent != nil &&
		parent.Role == types.AccountRoleCompany
}

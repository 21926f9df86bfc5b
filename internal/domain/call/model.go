package call

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Call is a usage record written by the call-handling layer at call
// termination. Immutable once created except for the billed flag, which the
// billing generator sets exactly once.
type Call struct {
	ID              string           `db:"id" json:"id"`
	AccountID       string           `db:"account_id" json:"account_id"`
	Src             string           `db:"src" json:"src"`
	Dst             string           `db:"dst" json:"dst"`
	StartedAt       time.Time        `db:"started_at" json:"started_at"`
	DurationSeconds int              `db:"duration_seconds" json:"duration_seconds"`
	Cost            decimal.Decimal  `db:"cost" json:"cost"`
	CallStatus      types.CallStatus `db:"call_status" json:"call_status"`
	Billed          bool             `db:"billed" json:"billed"`

	types.BaseModel
}

func (c *Call) TableName() string {
	return "calls"
}

func (c *Call) Validate() error {
	if c.AccountID == "" {
		return ierr.NewError("account_id is required").
			WithHint("Account ID is required").
			Mark(ierr.ErrValidation)
	}
	if c.DurationSeconds < 0 {
		return ierr.NewError("duration cannot be negative").
			WithHint("Call duration must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if c.Cost.IsNegative() {
		return ierr.NewError("cost cannot be negative").
			WithHint("Call cost must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Minutes returns the call duration in minutes at 5-decimal precision.
func (c *Call) Minutes() decimal.Decimal {
	return decimal.NewFromInt(int64(c.DurationSeconds)).
		Div(decimal.NewFromInt(60)).
		Round(5)
}

// UsageTotals is an aggregate over a set of calls, used by the hierarchy
// stats rollups.
type UsageTotals struct {
	Calls   int             `db:"calls" json:"calls"`
	Minutes decimal.Decimal `db:"minutes" json:"minutes"`
	Cost    decimal.Decimal `db:"cost" json:"cost"`
}

package plan

import (
	"github.com/shopspring/decimal"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

// Plan is a named markup ruleset converting wholesale cost into sell price.
type Plan struct {
	ID       string         `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	PlanType types.PlanType `db:"plan_type" json:"plan_type"`

	// Percentage markup, used when PlanType is percentage.
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
	// FixedAmount markup, used when PlanType is fixed.
	FixedAmount decimal.Decimal `db:"fixed_amount" json:"fixed_amount"`

	MinMarkup decimal.Decimal `db:"min_markup" json:"min_markup"`
	MaxMarkup decimal.Decimal `db:"max_markup" json:"max_markup"`

	// Precision is the number of decimal places sell prices are rounded to.
	Precision int32 `db:"precision" json:"precision"`
	// BillingIncrement is the billing granularity in seconds.
	BillingIncrement int `db:"billing_increment" json:"billing_increment"`

	IsPredefined bool `db:"is_predefined" json:"is_predefined"`
	IsActive     bool `db:"is_active" json:"is_active"`

	types.BaseModel
}

func (p *Plan) TableName() string {
	return "plans"
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if !p.PlanType.Validate() {
		return ierr.NewError("invalid plan type").
			WithHintf("Plan type must be one of percentage, fixed, free, got %s", p.PlanType).
			Mark(ierr.ErrValidation)
	}
	if p.Precision < 0 {
		return ierr.NewError("precision cannot be negative").
			WithHint("Rounding precision must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if p.MaxMarkup.LessThan(p.MinMarkup) {
		return ierr.NewError("max markup is below min markup").
			WithReportableDetails(map[string]any{
				"min_markup": p.MinMarkup,
				"max_markup": p.MaxMarkup,
			}).
			WithHint("Markup bounds must satisfy min <= max").
			Mark(ierr.ErrValidation)
	}
	return nil
}

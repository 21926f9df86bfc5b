package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/domain/plan"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// CreatePlanRequest represents the request to create a custom pricing plan
type CreatePlanRequest struct {
	Name             string          `json:"name" validate:"required"`
	PlanType         types.PlanType  `json:"plan_type" validate:"required"`
	Percentage       decimal.Decimal `json:"percentage"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	MinMarkup        decimal.Decimal `json:"min_markup"`
	MaxMarkup        decimal.Decimal `json:"max_markup"`
	Precision        int32           `json:"precision" validate:"gte=0"`
	BillingIncrement int             `json:"billing_increment" validate:"gte=0"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.PlanType.Validate() {
		return ierr.NewError("invalid plan type").
			WithHintf("Plan type must be one of percentage, fixed, free, got %s", r.PlanType).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToPlan converts the request into a custom plan. Custom plans are never
// predefined and start active.
func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	return &plan.Plan{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:             r.Name,
		PlanType:         r.PlanType,
		Percentage:       r.Percentage,
		FixedAmount:      r.FixedAmount,
		MinMarkup:        r.MinMarkup,
		MaxMarkup:        r.MaxMarkup,
		Precision:        r.Precision,
		BillingIncrement: r.BillingIncrement,
		IsPredefined:     false,
		IsActive:         true,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

// PlanResponse represents a pricing plan in API responses
type PlanResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	PlanType         types.PlanType  `json:"plan_type"`
	Percentage       decimal.Decimal `json:"percentage"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	MinMarkup        decimal.Decimal `json:"min_markup"`
	MaxMarkup        decimal.Decimal `json:"max_markup"`
	Precision        int32           `json:"precision"`
	BillingIncrement int             `json:"billing_increment"`
	IsPredefined     bool            `json:"is_predefined"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromPlan(p *plan.Plan) *PlanResponse {
	return &PlanResponse{
		ID:               p.ID,
		Name:             p.Name,
		PlanType:         p.PlanType,
		Percentage:       p.Percentage,
		FixedAmount:      p.FixedAmount,
		MinMarkup:        p.MinMarkup,
		MaxMarkup:        p.MaxMarkup,
		Precision:        p.Precision,
		BillingIncrement: p.BillingIncrement,
		IsPredefined:     p.IsPredefined,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
	}
}

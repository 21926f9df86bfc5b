package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/plan"
	"github.com/voxbill/voxbill/internal/domain/rate"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/types"
)

var oneHundred = decimal.NewFromInt(100)

// RateService converts wholesale cost entries into per-tenant sell prices
// through pricing plan rules, and manages the plan and catalog records.
type RateService interface {
	// SellPrice is pure: cost entry + plan rules -> sell price, rounded
	// half away from zero at the plan's precision.
	SellPrice(r *rate.Rate, p *plan.Plan) decimal.Decimal

	ConfiguredRates(ctx context.Context, planID string) ([]*dto.ConfiguredRateResponse, error)

	// UserRates resolves the account's plan, falling back to the
	// predefined 0%-markup plan when none is assigned.
	UserRates(ctx context.Context, accountID string) ([]*dto.ConfiguredRateResponse, error)

	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	CreateRate(ctx context.Context, req *dto.CreateRateRequest) (*dto.RateResponse, error)
}

type rateService struct {
	ServiceParams
}

func NewRateService(params ServiceParams) RateService {
	return &rateService{
		ServiceParams: params,
	}
}

func (s *rateService) SellPrice(r *rate.Rate, p *plan.Plan) decimal.Decimal {
	if p.PlanType == types.PlanTypeFree {
		return decimal.Zero
	}

	var markup decimal.Decimal
	switch p.PlanType {
	case types.PlanTypePercentage:
		markup = r.BuyPrice.Mul(p.Percentage).Div(oneHundred)
	case types.PlanTypeFixed:
		markup = p.FixedAmount
	}

	if markup.LessThan(p.MinMarkup) {
		markup = p.MinMarkup
	}
	if markup.GreaterThan(p.MaxMarkup) {
		markup = p.MaxMarkup
	}

	// decimal.Round rounds half away from zero, which is the platform's
	// documented rounding rule for sell prices.
	return r.BuyPrice.Add(markup).Round(p.Precision)
}

func (s *rateService) configuredRates(ctx context.Context, p *plan.Plan) ([]*dto.ConfiguredRateResponse, error) {
	rates, err := s.RateRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(rates, func(r *rate.Rate, _ int) *dto.ConfiguredRateResponse {
		sell := s.SellPrice(r, p)
		profit := sell.Sub(r.BuyPrice)
		margin := decimal.Zero
		if !r.BuyPrice.IsZero() {
			margin = profit.Div(r.BuyPrice).Mul(oneHundred)
		}
		return &dto.ConfiguredRateResponse{
			RateID:    r.ID,
			Code:      r.Code,
			Name:      r.Name,
			BuyPrice:  r.BuyPrice,
			SellPrice: sell,
			Profit:    profit,
			MarginPct: margin,
		}
	}), nil
}

func (s *rateService) ConfiguredRates(ctx context.Context, planID string) ([]*dto.ConfiguredRateResponse, error) {
	if planID == "" {
		return nil, ierr.NewError("plan_id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	return s.configuredRates(ctx, p)
}

func (s *rateService) UserRates(ctx context.Context, accountID string) ([]*dto.ConfiguredRateResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var p *plan.Plan
	if acct.PlanID != nil {
		p, err = s.PlanRepo.Get(ctx, *acct.PlanID)
		if err != nil {
			return nil, err
		}
	} else {
		p, err = s.PlanRepo.GetPredefinedDefault(ctx)
		if err != nil {
			if ierr.IsNotFound(err) {
				// Environment-setup gap: the platform should always
				// seed a 0%-markup default plan.
				s.Logger.Errorw("no predefined default plan exists",
					"account_id", accountID,
				)
				return []*dto.ConfiguredRateResponse{}, nil
			}
			return nil, err
		}
	}

	return s.configuredRates(ctx, p)
}

func (s *rateService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.PlanRepo.GetByName(ctx, req.Name)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("plan name already in use").
			WithHintf("A plan named %s already exists", req.Name).
			Mark(ierr.ErrAlreadyExists)
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		s.Logger.Errorw("failed to create plan", "error", err, "name", p.Name)
		return nil, err
	}

	return dto.FromPlan(p), nil
}

func (s *rateService) CreateRate(ctx context.Context, req *dto.CreateRateRequest) (*dto.RateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := req.ToRate(ctx)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.RateRepo.Create(ctx, r); err != nil {
		s.Logger.Errorw("failed to create rate", "error", err, "code", r.Code)
		return nil, err
	}

	return dto.FromRate(r), nil
}

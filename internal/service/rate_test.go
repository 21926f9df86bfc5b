package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/domain/plan"
	"github.com/voxbill/voxbill/internal/domain/rate"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type RateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RateService
}

func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceSuite))
}

func (s *RateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRateService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		AccountRepo: s.GetStores().AccountRepo,
		RateRepo:    s.GetStores().RateRepo,
		PlanRepo:    s.GetStores().PlanRepo,
	})
}

func (s *RateServiceSuite) percentagePlan(pct string, min, max string, precision int32) *plan.Plan {
	return &plan.Plan{
		ID:         "plan_pct",
		Name:       "Percentage",
		PlanType:   types.PlanTypePercentage,
		Percentage: decimal.RequireFromString(pct),
		MinMarkup:  decimal.RequireFromString(min),
		MaxMarkup:  decimal.RequireFromString(max),
		Precision:  precision,
	}
}

func (s *RateServiceSuite) TestSellPricePercentage() {
	r := &rate.Rate{Code: "44", Name: "United Kingdom", BuyPrice: decimal.RequireFromString("0.01")}
	p := s.percentagePlan("20", "0", "100", 5)

	sell := s.service.SellPrice(r, p)
	s.True(sell.Equal(decimal.RequireFromString("0.012")), "got %s", sell)
}

func (s *RateServiceSuite) TestSellPriceMinMarkupClamp() {
	r := &rate.Rate{Code: "44", Name: "United Kingdom", BuyPrice: decimal.RequireFromString("0.01")}
	p := s.percentagePlan("10", "0.005", "100", 5)

	// 10% of 0.01 is 0.001, below the 0.005 floor.
	sell := s.service.SellPrice(r, p)
	s.True(sell.Equal(decimal.RequireFromString("0.015")), "got %s", sell)
}

func (s *RateServiceSuite) TestSellPriceMaxMarkupClamp() {
	r := &rate.Rate{Code: "1", Name: "USA", BuyPrice: decimal.NewFromInt(10)}
	p := s.percentagePlan("50", "0", "2", 5)

	// 50% of 10 is 5, above the 2 ceiling.
	sell := s.service.SellPrice(r, p)
	s.True(sell.Equal(decimal.NewFromInt(12)), "got %s", sell)
}

func (s *RateServiceSuite) TestSellPriceFixedMarkup() {
	r := &rate.Rate{Code: "49", Name: "Germany", BuyPrice: decimal.RequireFromString("0.02")}
	p := &plan.Plan{
		ID:          "plan_fixed",
		Name:        "Fixed",
		PlanType:    types.PlanTypeFixed,
		FixedAmount: decimal.RequireFromString("0.01"),
		MinMarkup:   decimal.Zero,
		MaxMarkup:   decimal.NewFromInt(1),
		Precision:   4,
	}

	sell := s.service.SellPrice(r, p)
	s.True(sell.Equal(decimal.RequireFromString("0.03")), "got %s", sell)
}

func (s *RateServiceSuite) TestSellPriceFreePlanIsZero() {
	r := &rate.Rate{Code: "49", Name: "Germany", BuyPrice: decimal.RequireFromString("0.02")}
	p := &plan.Plan{
		ID:       "plan_free",
		Name:     "Free",
		PlanType: types.PlanTypeFree,
	}

	s.True(s.service.SellPrice(r, p).IsZero())
}

func (s *RateServiceSuite) TestSellPriceRoundsHalfAwayFromZero() {
	r := &rate.Rate{Code: "33", Name: "France", BuyPrice: decimal.RequireFromString("0.00125")}
	p := s.percentagePlan("0", "0", "0", 4)

	sell := s.service.SellPrice(r, p)
	s.True(sell.Equal(decimal.RequireFromString("0.0013")), "got %s", sell)
}

func (s *RateServiceSuite) seedCatalog() {
	ctx := s.GetContext()
	s.NoError(s.GetStores().RateRepo.Create(ctx, &rate.Rate{
		ID:        "rate_uk",
		Code:      "44",
		Name:      "United Kingdom",
		BuyPrice:  decimal.RequireFromString("0.01"),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}))
	s.NoError(s.GetStores().RateRepo.Create(ctx, &rate.Rate{
		ID:        "rate_de",
		Code:      "49",
		Name:      "Germany",
		BuyPrice:  decimal.RequireFromString("0.02"),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}))
}

func (s *RateServiceSuite) TestConfiguredRates() {
	ctx := s.GetContext()
	s.seedCatalog()

	p := s.percentagePlan("20", "0", "100", 5)
	p.BaseModel = types.GetDefaultBaseModel(ctx)
	s.NoError(s.GetStores().PlanRepo.Create(ctx, p))

	rates, err := s.service.ConfiguredRates(ctx, p.ID)
	s.NoError(err)
	s.Len(rates, 2)

	byCode := make(map[string]*dto.ConfiguredRateResponse)
	for _, r := range rates {
		byCode[r.Code] = r
	}
	s.True(byCode["44"].SellPrice.Equal(decimal.RequireFromString("0.012")))
	s.True(byCode["44"].Profit.Equal(decimal.RequireFromString("0.002")))
	s.True(byCode["44"].MarginPct.Equal(decimal.NewFromInt(20)))
}

func (s *RateServiceSuite) TestUserRatesFallsBackToPredefinedDefault() {
	ctx := s.GetContext()
	s.seedCatalog()

	defaultPlan := &plan.Plan{
		ID:           "plan_default",
		Name:         "Default",
		PlanType:     types.PlanTypePercentage,
		Percentage:   decimal.Zero,
		IsPredefined: true,
		IsActive:     true,
		Precision:    4,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().PlanRepo.Create(ctx, defaultPlan))

	acct := &account.Account{
		ID:        "acct_user",
		Name:      "Alice",
		Role:      types.AccountRoleUser,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().AccountRepo.Create(ctx, acct))

	rates, err := s.service.UserRates(ctx, acct.ID)
	s.NoError(err)
	s.Len(rates, 2)
	for _, r := range rates {
		s.True(r.SellPrice.Equal(r.BuyPrice), "0%% markup must sell at cost")
	}
}

func (s *RateServiceSuite) TestUserRatesEmptyWhenNoDefaultSeeded() {
	ctx := s.GetContext()
	s.seedCatalog()

	acct := &account.Account{
		ID:        "acct_user",
		Name:      "Alice",
		Role:      types.AccountRoleUser,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().AccountRepo.Create(ctx, acct))

	rates, err := s.service.UserRates(ctx, acct.ID)
	s.NoError(err)
	s.Empty(rates)
}

func (s *RateServiceSuite) TestCreatePlanRejectsDuplicateName() {
	ctx := s.GetContext()

	req := &dto.CreatePlanRequest{
		Name:      "Gold",
		PlanType:  types.PlanTypePercentage,
		MaxMarkup: decimal.NewFromInt(100),
		Precision: 4,
	}
	_, err := s.service.CreatePlan(ctx, req)
	s.NoError(err)

	_, err = s.service.CreatePlan(ctx, req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *RateServiceSuite) TestCreateRateRejectsNonNumericCode() {
	_, err := s.service.CreateRate(s.GetContext(), &dto.CreateRateRequest{
		Code:     "44a",
		Name:     "Bad",
		BuyPrice: decimal.RequireFromString("0.01"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

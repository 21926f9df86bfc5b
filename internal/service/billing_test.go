package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/domain/call"
	"github.com/voxbill/voxbill/internal/domain/rate"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  BillingService
	testData struct {
		account     *account.Account
		periodStart time.Time
		periodEnd   time.Time
	}
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		AccountRepo: s.GetStores().AccountRepo,
		RateRepo:    s.GetStores().RateRepo,
		CallRepo:    s.GetStores().CallRepo,
		InvoiceRepo: s.GetStores().InvoiceRepo,
	})
	s.setupTestData()
}

func (s *BillingServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.testData.account = &account.Account{
		ID:        "acct_user",
		Name:      "Alice",
		Role:      types.AccountRoleUser,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().AccountRepo.Create(ctx, s.testData.account))

	for _, r := range []*rate.Rate{
		{ID: "rate_uk", Code: "44", Name: "United Kingdom", BuyPrice: decimal.RequireFromString("0.01")},
		{ID: "rate_uk_mobile", Code: "447", Name: "United Kingdom Mobile", BuyPrice: decimal.RequireFromString("0.02")},
		{ID: "rate_de", Code: "49", Name: "Germany", BuyPrice: decimal.RequireFromString("0.015")},
	} {
		r.BaseModel = types.GetDefaultBaseModel(ctx)
		s.NoError(s.GetStores().RateRepo.Create(ctx, r))
	}

	s.testData.periodStart = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	s.testData.periodEnd = time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)
}

func (s *BillingServiceSuite) createCall(id, dst string, seconds int, cost string, status types.CallStatus) {
	ctx := s.GetContext()
	s.NoError(s.GetStores().CallRepo.Create(ctx, &call.Call{
		ID:              id,
		AccountID:       s.testData.account.ID,
		Src:             "1001",
		Dst:             dst,
		StartedAt:       s.testData.periodStart.AddDate(0, 0, 5),
		DurationSeconds: seconds,
		Cost:            decimal.RequireFromString(cost),
		CallStatus:      status,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}))
}

func (s *BillingServiceSuite) generate() (*dto.InvoiceResponse, error) {
	return s.service.GenerateInvoice(s.GetContext(), &dto.GenerateInvoiceRequest{
		AccountID:   s.testData.account.ID,
		PeriodStart: s.testData.periodStart,
		PeriodEnd:   s.testData.periodEnd,
	})
}

func (s *BillingServiceSuite) TestGenerateInvoiceGroupsByDestination() {
	// 750 seconds is 12.5 minutes; 1.875 total cost gives a 0.15 unit price.
	s.createCall("call_1", "442071234567", 450, "1.125", types.CallStatusAnswered)
	s.createCall("call_2", "442076543210", 300, "0.75", types.CallStatusAnswered)
	s.createCall("call_3", "4915112345678", 60, "0.015", types.CallStatusAnswered)

	inv, err := s.generate()
	s.NoError(err)
	s.NotNil(inv)
	s.Len(inv.LineItems, 2)

	s.Equal("Germany", inv.LineItems[0].Description)
	s.Equal("United Kingdom", inv.LineItems[1].Description)

	uk := inv.LineItems[1]
	s.True(uk.Quantity.Equal(decimal.RequireFromString("12.5")), "got %s", uk.Quantity)
	s.True(uk.Total.Equal(decimal.RequireFromString("1.875")), "got %s", uk.Total)
	s.True(uk.UnitPrice.Equal(decimal.RequireFromString("0.15")), "got %s", uk.UnitPrice)

	s.True(inv.Total.Equal(decimal.RequireFromString("1.89")), "got %s", inv.Total)
	s.Equal(types.InvoiceStatusUnpaid, inv.InvoiceStatus)
}

func (s *BillingServiceSuite) TestLongestPrefixWins() {
	s.createCall("call_mobile", "447912345678", 60, "0.02", types.CallStatusAnswered)

	inv, err := s.generate()
	s.NoError(err)
	s.Len(inv.LineItems, 1)
	s.Equal("United Kingdom Mobile", inv.LineItems[0].Description)
}

func (s *BillingServiceSuite) TestUnmatchedDestinationFallsBack() {
	s.createCall("call_unknown", "+81312345678", 60, "0.05", types.CallStatusAnswered)

	inv, err := s.generate()
	s.NoError(err)
	s.Len(inv.LineItems, 1)
	s.Equal("International (+8131...)", inv.LineItems[0].Description)
}

func (s *BillingServiceSuite) TestOnlyAnsweredCallsAreBilled() {
	s.createCall("call_busy", "442071234567", 0, "0", types.CallStatusBusy)
	s.createCall("call_failed", "442071234567", 0, "0", types.CallStatusFailed)

	inv, err := s.generate()
	s.NoError(err)
	s.Nil(inv)
}

func (s *BillingServiceSuite) TestRerunIsNoOp() {
	s.createCall("call_1", "442071234567", 60, "0.01", types.CallStatusAnswered)

	first, err := s.generate()
	s.NoError(err)
	s.NotNil(first)

	second, err := s.generate()
	s.NoError(err)
	s.Nil(second, "a fully billed period must produce nothing")

	billed, err := s.GetStores().CallRepo.Get(s.GetContext(), "call_1")
	s.NoError(err)
	s.True(billed.Billed)
}

func (s *BillingServiceSuite) TestCallsOutsidePeriodExcluded() {
	ctx := s.GetContext()
	s.NoError(s.GetStores().CallRepo.Create(ctx, &call.Call{
		ID:              "call_early",
		AccountID:       s.testData.account.ID,
		Src:             "1001",
		Dst:             "442071234567",
		StartedAt:       s.testData.periodStart.AddDate(0, -1, 0),
		DurationSeconds: 60,
		Cost:            decimal.RequireFromString("0.01"),
		CallStatus:      types.CallStatusAnswered,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}))

	inv, err := s.generate()
	s.NoError(err)
	s.Nil(inv)
}

func (s *BillingServiceSuite) TestDueDateFollowsConfig() {
	s.createCall("call_1", "442071234567", 60, "0.01", types.CallStatusAnswered)

	before := time.Now().UTC()
	inv, err := s.generate()
	s.NoError(err)

	wantEarliest := before.AddDate(0, 0, s.GetConfig().Billing.InvoiceDueDays)
	s.False(inv.DueDate.Before(wantEarliest.Add(-time.Minute)))
}

func (s *BillingServiceSuite) TestGenerateInvoiceRejectsInvertedPeriod() {
	_, err := s.service.GenerateInvoice(s.GetContext(), &dto.GenerateInvoiceRequest{
		AccountID:   s.testData.account.ID,
		PeriodStart: s.testData.periodEnd,
		PeriodEnd:   s.testData.periodStart,
	})
	s.Error(err)
}

func (s *BillingServiceSuite) TestGenerateInvoiceUnknownAccount() {
	_, err := s.service.GenerateInvoice(s.GetContext(), &dto.GenerateInvoiceRequest{
		AccountID:   "acct_missing",
		PeriodStart: s.testData.periodStart,
		PeriodEnd:   s.testData.periodEnd,
	})
	s.Error(err)
}

func (s *BillingServiceSuite) TestListInvoices() {
	s.createCall("call_1", "442071234567", 60, "0.01", types.CallStatusAnswered)

	inv, err := s.generate()
	s.NoError(err)

	list, err := s.service.ListInvoices(s.GetContext(), s.testData.account.ID)
	s.NoError(err)
	s.Len(list, 1)
	s.Equal(inv.ID, list[0].ID)

	got, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Len(got.LineItems, 1)
}

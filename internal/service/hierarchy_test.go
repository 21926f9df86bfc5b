package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/domain/call"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type HierarchyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  HierarchyService
	testData struct {
		reseller *account.Account
		company  *account.Account
		userA    *account.Account
		userB    *account.Account
		company2 *account.Account
	}
}

func TestHierarchyService(t *testing.T) {
	suite.Run(t, new(HierarchyServiceSuite))
}

func (s *HierarchyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewHierarchyService(s.params())
	s.setupTestData()
}

func (s *HierarchyServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		AccountRepo:  s.GetStores().AccountRepo,
		RateRepo:     s.GetStores().RateRepo,
		PlanRepo:     s.GetStores().PlanRepo,
		CallRepo:     s.GetStores().CallRepo,
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		SequenceRepo: s.GetStores().SequenceRepo,
		WalletRepo:   s.GetStores().WalletRepo,
	}
}

func (s *HierarchyServiceSuite) createAccount(a *account.Account) *account.Account {
	a.BaseModel = types.GetDefaultBaseModel(s.GetContext())
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), a))
	return a
}

func (s *HierarchyServiceSuite) setupTestData() {
	s.testData.reseller = s.createAccount(&account.Account{
		ID:   "acct_reseller",
		Name: "Atlas Telecom",
		Role: types.AccountRoleReseller,
	})
	s.testData.company = s.createAccount(&account.Account{
		ID:                 "acct_company",
		Name:               "Globex",
		Role:               types.AccountRoleCompany,
		ParentID:           &s.testData.reseller.ID,
		ResellerID:         &s.testData.reseller.ID,
		MaxConcurrentCalls: 10,
		ActiveCalls:        2,
	})
	s.testData.userA = s.createAccount(&account.Account{
		ID:         "acct_user_a",
		Name:       "Alice",
		Role:       types.AccountRoleUser,
		ParentID:   &s.testData.company.ID,
		ResellerID: &s.testData.reseller.ID,
	})
	s.testData.userB = s.createAccount(&account.Account{
		ID:         "acct_user_b",
		Name:       "Bob",
		Role:       types.AccountRoleUser,
		ParentID:   &s.testData.company.ID,
		ResellerID: &s.testData.reseller.ID,
	})
	s.testData.company2 = s.createAccount(&account.Account{
		ID:                 "acct_company_2",
		Name:               "Initech",
		Role:               types.AccountRoleCompany,
		ParentID:           &s.testData.reseller.ID,
		ResellerID:         &s.testData.reseller.ID,
		MaxConcurrentCalls: 5,
	})
}

func (s *HierarchyServiceSuite) TestDescendantIDsExcludesSelf() {
	ids, err := s.service.DescendantIDs(s.GetContext(), s.testData.reseller.ID)
	s.NoError(err)
	s.ElementsMatch([]string{"acct_company", "acct_user_a", "acct_user_b", "acct_company_2"}, ids)
	s.NotContains(ids, s.testData.reseller.ID)
}

func (s *HierarchyServiceSuite) TestDescendantIDsOfCompany() {
	ids, err := s.service.DescendantIDs(s.GetContext(), s.testData.company.ID)
	s.NoError(err)
	s.ElementsMatch([]string{"acct_user_a", "acct_user_b"}, ids)
}

func (s *HierarchyServiceSuite) TestDescendantIDsOfLeaf() {
	ids, err := s.service.DescendantIDs(s.GetContext(), s.testData.userA.ID)
	s.NoError(err)
	s.Empty(ids)
}

func (s *HierarchyServiceSuite) TestDescendantIDsUnknownNode() {
	_, err := s.service.DescendantIDs(s.GetContext(), "acct_missing")
	s.Error(err)
}

func (s *HierarchyServiceSuite) TestCanReparentToSelfRefused() {
	ok, err := s.service.CanReparent(s.GetContext(), s.testData.company.ID, &s.testData.company.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *HierarchyServiceSuite) TestCanReparentUnderOwnDescendantRefused() {
	ok, err := s.service.CanReparent(s.GetContext(), s.testData.reseller.ID, &s.testData.userA.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *HierarchyServiceSuite) TestCanReparentDetachAllowed() {
	ok, err := s.service.CanReparent(s.GetContext(), s.testData.company.ID, nil)
	s.NoError(err)
	s.True(ok)
}

func (s *HierarchyServiceSuite) TestReparentMovesNode() {
	ok, err := s.service.Reparent(s.GetContext(), s.testData.company2.ID, &s.testData.company.ID)
	s.NoError(err)
	s.True(ok)

	moved, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testData.company2.ID)
	s.NoError(err)
	s.Equal(s.testData.company.ID, *moved.ParentID)
}

func (s *HierarchyServiceSuite) TestReparentRefusalDoesNotMutate() {
	ok, err := s.service.Reparent(s.GetContext(), s.testData.reseller.ID, &s.testData.userB.ID)
	s.NoError(err)
	s.False(ok)

	unchanged, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testData.reseller.ID)
	s.NoError(err)
	s.Nil(unchanged.ParentID)
}

func (s *HierarchyServiceSuite) TestRootResellerID() {
	id, err := s.service.RootResellerID(s.GetContext(), s.testData.userA.ID)
	s.NoError(err)
	s.NotNil(id)
	s.Equal(s.testData.reseller.ID, *id)
}

func (s *HierarchyServiceSuite) TestRootResellerIDOfDetachedNode() {
	detached := s.createAccount(&account.Account{
		ID:   "acct_detached",
		Name: "Standalone",
		Role: types.AccountRoleCompany,
	})

	id, err := s.service.RootResellerID(s.GetContext(), detached.ID)
	s.NoError(err)
	s.Nil(id)
}

func (s *HierarchyServiceSuite) TestResellerStats() {
	ctx := s.GetContext()
	now := time.Now().UTC()

	s.NoError(s.GetStores().CallRepo.Create(ctx, &call.Call{
		ID:              "call_today",
		AccountID:       s.testData.userA.ID,
		Src:             "1001",
		Dst:             "442071234567",
		StartedAt:       now,
		DurationSeconds: 120,
		Cost:            decimal.RequireFromString("0.50"),
		CallStatus:      types.CallStatusAnswered,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}))
	s.NoError(s.GetStores().WalletRepo.Create(ctx, &wallet.Wallet{
		ID:        "wallet_user_a",
		AccountID: s.testData.userA.ID,
		Currency:  "usd",
		Balance:   decimal.NewFromInt(25),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}))

	stats, err := s.service.ResellerStats(ctx, s.testData.reseller.ID)
	s.NoError(err)
	s.Equal(2, stats.Companies)
	s.Equal(2, stats.Users)
	s.Equal(15, stats.TotalChannels)
	s.Equal(2, stats.ActiveCalls)
	s.Equal(1, stats.CallsToday)
	s.True(stats.MinutesToday.Equal(decimal.NewFromInt(2)))
	s.True(stats.CostToday.Equal(decimal.RequireFromString("0.50")))
	s.True(stats.TotalBalance.Equal(decimal.NewFromInt(25)))
}

func (s *HierarchyServiceSuite) TestResellerStatsRejectsNonReseller() {
	_, err := s.service.ResellerStats(s.GetContext(), s.testData.company.ID)
	s.Error(err)
}

func (s *HierarchyServiceSuite) TestCompanyStats() {
	stats, err := s.service.CompanyStats(s.GetContext(), s.testData.company.ID)
	s.NoError(err)
	s.Equal(2, stats.Users)
	s.Equal(10, stats.MaxChannels)
	s.Equal(2, stats.ActiveCalls)
}

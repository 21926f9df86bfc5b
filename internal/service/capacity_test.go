package service

import (
	"sync/atomic"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type CapacityServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  CapacityService
	testData struct {
		company  *account.Account
		user     *account.Account
		reseller *account.Account
	}
}

func TestCapacityService(t *testing.T) {
	suite.Run(t, new(CapacityServiceSuite))
}

func (s *CapacityServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCapacityService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		AccountRepo: s.GetStores().AccountRepo,
	})
	s.setupTestData()
}

func (s *CapacityServiceSuite) createAccount(a *account.Account) *account.Account {
	a.BaseModel = types.GetDefaultBaseModel(s.GetContext())
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), a))
	return a
}

func (s *CapacityServiceSuite) setupTestData() {
	s.testData.reseller = s.createAccount(&account.Account{
		ID:                 "acct_reseller",
		Name:               "Atlas Telecom",
		Role:               types.AccountRoleReseller,
		MaxConcurrentCalls: 100,
	})
	s.testData.company = s.createAccount(&account.Account{
		ID:                 "acct_company",
		Name:               "Globex",
		Role:               types.AccountRoleCompany,
		ParentID:           &s.testData.reseller.ID,
		MaxConcurrentCalls: 3,
	})
	s.testData.user = s.createAccount(&account.Account{
		ID:       "acct_user",
		Name:     "Alice",
		Role:     types.AccountRoleUser,
		ParentID: &s.testData.company.ID,
	})
}

func (s *CapacityServiceSuite) TestUserDrawsFromCompanyPool() {
	admitted, err := s.service.IncrementActiveCalls(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.True(admitted)

	company, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testData.company.ID)
	s.NoError(err)
	s.Equal(1, company.ActiveCalls)

	user, err := s.GetStores().AccountRepo.Get(s.GetContext(), s.testData.user.ID)
	s.NoError(err)
	s.Equal(0, user.ActiveCalls)
}

func (s *CapacityServiceSuite) TestAdmissionRefusedAtCapacity() {
	ctx := s.GetContext()
	for i := 0; i < 3; i++ {
		admitted, err := s.service.IncrementActiveCalls(ctx, s.testData.user.ID)
		s.NoError(err)
		s.True(admitted)
	}

	admitted, err := s.service.IncrementActiveCalls(ctx, s.testData.user.ID)
	s.NoError(err)
	s.False(admitted)

	ok, err := s.service.CanStartCall(ctx, s.testData.user.ID)
	s.NoError(err)
	s.False(ok)
}

func (s *CapacityServiceSuite) TestConcurrentAdmissionNeverExceedsCapacity() {
	ctx := s.GetContext()

	var admitted int32
	var wg conc.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Go(func() {
			ok, err := s.service.IncrementActiveCalls(ctx, s.testData.user.ID)
			s.NoError(err)
			if ok {
				atomic.AddInt32(&admitted, 1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(3), admitted)

	company, err := s.GetStores().AccountRepo.Get(ctx, s.testData.company.ID)
	s.NoError(err)
	s.Equal(3, company.ActiveCalls)
}

func (s *CapacityServiceSuite) TestDecrementClampsAtZero() {
	ctx := s.GetContext()

	s.NoError(s.service.DecrementActiveCalls(ctx, s.testData.user.ID))

	company, err := s.GetStores().AccountRepo.Get(ctx, s.testData.company.ID)
	s.NoError(err)
	s.Equal(0, company.ActiveCalls)
}

func (s *CapacityServiceSuite) TestReleaseAfterAdmit() {
	ctx := s.GetContext()

	admitted, err := s.service.IncrementActiveCalls(ctx, s.testData.user.ID)
	s.NoError(err)
	s.True(admitted)

	s.NoError(s.service.DecrementActiveCalls(ctx, s.testData.user.ID))

	company, err := s.GetStores().AccountRepo.Get(ctx, s.testData.company.ID)
	s.NoError(err)
	s.Equal(0, company.ActiveCalls)
}

func (s *CapacityServiceSuite) TestChannelInfoPooledUser() {
	ctx := s.GetContext()

	_, err := s.service.IncrementActiveCalls(ctx, s.testData.user.ID)
	s.NoError(err)

	info, err := s.service.ChannelInfo(ctx, s.testData.user.ID)
	s.NoError(err)
	s.Equal(s.testData.user.ID, info.AccountID)
	s.Equal(s.testData.company.ID, info.HolderID)
	s.Equal(types.AccountRoleCompany, info.HolderRole)
	s.Equal(3, info.MaxChannels)
	s.Equal(1, info.ActiveCalls)
	s.Equal(2, info.AvailableChannels)
	s.True(info.PooledCompanyUser)
}

func (s *CapacityServiceSuite) TestChannelInfoSelfHolder() {
	info, err := s.service.ChannelInfo(s.GetContext(), s.testData.company.ID)
	s.NoError(err)
	s.Equal(s.testData.company.ID, info.HolderID)
	s.False(info.PooledCompanyUser)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	ierr "github.com/voxbill/voxbill/internal/errors"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  AccountService
	testData struct {
		reseller *account.Account
		company  *account.Account
	}
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		AccountRepo: s.GetStores().AccountRepo,
		PlanRepo:    s.GetStores().PlanRepo,
		CallRepo:    s.GetStores().CallRepo,
		WalletRepo:  s.GetStores().WalletRepo,
	}
	s.service = NewAccountService(params, NewHierarchyService(params))
	s.setupTestData()
}

func (s *AccountServiceSuite) setupTestData() {
	ctx := s.GetContext()
	s.testData.reseller = &account.Account{
		ID:        "acct_reseller",
		Name:      "Atlas Telecom",
		Role:      types.AccountRoleReseller,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().AccountRepo.Create(ctx, s.testData.reseller))

	resellerID := s.testData.reseller.ID
	s.testData.company = &account.Account{
		ID:         "acct_company",
		Name:       "Globex",
		Role:       types.AccountRoleCompany,
		ParentID:   &resellerID,
		ResellerID: &resellerID,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().AccountRepo.Create(ctx, s.testData.company))
}

func (s *AccountServiceSuite) TestCreateAccountUnderReseller() {
	resp, err := s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name:               "Initech",
		Role:               types.AccountRoleCompany,
		ParentID:           &s.testData.reseller.ID,
		MaxConcurrentCalls: 5,
	})
	s.NoError(err)
	s.NotNil(resp.ResellerID)
	s.Equal(s.testData.reseller.ID, *resp.ResellerID)
	s.Equal(types.BillingTypePrepaid, resp.BillingType)
}

func (s *AccountServiceSuite) TestCreateUserInheritsResellerFromCompany() {
	resp, err := s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name:     "Alice",
		Role:     types.AccountRoleUser,
		ParentID: &s.testData.company.ID,
	})
	s.NoError(err)
	s.NotNil(resp.ResellerID)
	s.Equal(s.testData.reseller.ID, *resp.ResellerID)
}

func (s *AccountServiceSuite) TestCreateAccountUnderUserRefused() {
	user, err := s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name:     "Alice",
		Role:     types.AccountRoleUser,
		ParentID: &s.testData.company.ID,
	})
	s.NoError(err)

	_, err = s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name:     "Nested",
		Role:     types.AccountRoleUser,
		ParentID: &user.ID,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *AccountServiceSuite) TestCreateAccountUnknownParent() {
	missing := "acct_missing"
	_, err := s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name:     "Orphan",
		Role:     types.AccountRoleCompany,
		ParentID: &missing,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AccountServiceSuite) TestCreateAccountInvalidRole() {
	_, err := s.service.CreateAccount(s.GetContext(), &dto.CreateAccountRequest{
		Name: "Bad",
		Role: types.AccountRole("admin"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AccountServiceSuite) TestGetAccount() {
	resp, err := s.service.GetAccount(s.GetContext(), s.testData.company.ID)
	s.NoError(err)
	s.Equal("Globex", resp.Name)

	_, err = s.service.GetAccount(s.GetContext(), "acct_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

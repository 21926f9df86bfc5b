package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/api/dto"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/testutil"
	"github.com/voxbill/voxbill/internal/types"
)

type WalletServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  WalletService
	testData struct {
		euConsumer *account.Account
		euBusiness *account.Account
		usAccount  *account.Account
	}
}

func TestWalletService(t *testing.T) {
	suite.Run(t, new(WalletServiceSuite))
}

func (s *WalletServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		PDFGenerator: s.GetPDFGenerator(),
		AccountRepo:  s.GetStores().AccountRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		SequenceRepo: s.GetStores().SequenceRepo,
		WalletRepo:   s.GetStores().WalletRepo,
	}
	s.service = NewWalletService(params, NewTaxService(params))
	s.setupTestData()
}

func (s *WalletServiceSuite) createAccount(a *account.Account) *account.Account {
	a.BaseModel = types.GetDefaultBaseModel(s.GetContext())
	s.NoError(s.GetStores().AccountRepo.Create(s.GetContext(), a))
	return a
}

func (s *WalletServiceSuite) setupTestData() {
	s.testData.euConsumer = s.createAccount(&account.Account{
		ID:          "acct_de",
		Name:        "Globex GmbH",
		Role:        types.AccountRoleCompany,
		CountryCode: "DE",
	})
	s.testData.euBusiness = s.createAccount(&account.Account{
		ID:          "acct_de_biz",
		Name:        "Initech GmbH",
		Role:        types.AccountRoleCompany,
		CountryCode: "DE",
		TaxNumber:   "DE123456789",
	})
	s.testData.usAccount = s.createAccount(&account.Account{
		ID:          "acct_us",
		Name:        "Acme Inc",
		Role:        types.AccountRoleCompany,
		CountryCode: "US",
	})
}

func (s *WalletServiceSuite) TestBalanceCreatesWalletOnFirstAccess() {
	resp, err := s.service.Balance(s.GetContext(), s.testData.usAccount.ID)
	s.NoError(err)
	s.Equal(s.testData.usAccount.ID, resp.AccountID)
	s.True(resp.Balance.IsZero())

	again, err := s.service.Balance(s.GetContext(), s.testData.usAccount.ID)
	s.NoError(err)
	s.Equal(resp.ID, again.ID)
}

func (s *WalletServiceSuite) TestBalanceUnknownAccount() {
	_, err := s.service.Balance(s.GetContext(), "acct_missing")
	s.Error(err)
}

func (s *WalletServiceSuite) TestTopUpCreditsBaseAmountOnly() {
	resp, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.euConsumer.ID,
		Amount:    decimal.NewFromInt(100),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)

	s.True(resp.Amount.Equal(decimal.NewFromInt(100)))
	s.True(resp.TaxAmount.Equal(decimal.NewFromInt(19)))
	s.True(resp.TotalPaid.Equal(decimal.NewFromInt(119)))
	s.Equal(types.TaxTypeVAT, resp.TaxType)

	balance, err := s.service.Balance(s.GetContext(), s.testData.euConsumer.ID)
	s.NoError(err)
	s.True(balance.Balance.Equal(decimal.NewFromInt(100)), "tax must not be credited")
}

func (s *WalletServiceSuite) TestTopUpInvoiceNumbersAreSequential() {
	year := time.Now().UTC().Year()

	first, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)
	s.Equal(fmt.Sprintf("INV-%d-000001", year), first.InvoiceNumber)

	second, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.euConsumer.ID,
		Amount:    decimal.NewFromInt(20),
		Method:    types.PaymentMethodBankTransfer,
	})
	s.NoError(err)
	s.Equal(fmt.Sprintf("INV-%d-000002", year), second.InvoiceNumber)
}

func (s *WalletServiceSuite) TestTopUpReverseChargeForRegisteredBusiness() {
	resp, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.euBusiness.ID,
		Amount:    decimal.NewFromInt(100),
		Method:    types.PaymentMethodBankTransfer,
	})
	s.NoError(err)
	s.Equal(types.TaxTypeReverseCharge, resp.TaxType)
	s.True(resp.TaxAmount.IsZero())
	s.True(resp.TotalPaid.Equal(decimal.NewFromInt(100)))
}

func (s *WalletServiceSuite) TestTopUpRendersReceipt() {
	resp, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodOffline,
	})
	s.NoError(err)
	s.Contains(s.GetPDFGenerator().Rendered, resp.ID)
}

func (s *WalletServiceSuite) TestTopUpSurvivesReceiptFailure() {
	s.GetPDFGenerator().Err = errors.New("render backend down")

	resp, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)

	balance, err := s.service.Balance(s.GetContext(), s.testData.usAccount.ID)
	s.NoError(err)
	s.True(balance.Balance.Equal(decimal.NewFromInt(10)))

	stored, err := s.GetStores().PaymentRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.InvoiceNumber, stored.InvoiceNumber)
}

func (s *WalletServiceSuite) TestTopUpRejectsNonPositiveAmount() {
	_, err := s.service.TopUp(s.GetContext(), &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.Zero,
		Method:    types.PaymentMethodCard,
	})
	s.Error(err)
}

func (s *WalletServiceSuite) TestDeduct() {
	ctx := s.GetContext()
	_, err := s.service.TopUp(ctx, &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(50),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)

	deducted, err := s.service.Deduct(ctx, s.testData.usAccount.ID, decimal.NewFromInt(30), "usage")
	s.NoError(err)
	s.True(deducted)

	balance, err := s.service.Balance(ctx, s.testData.usAccount.ID)
	s.NoError(err)
	s.True(balance.Balance.Equal(decimal.NewFromInt(20)))
}

func (s *WalletServiceSuite) TestDeductInsufficientFundsLeavesBalance() {
	ctx := s.GetContext()
	_, err := s.service.TopUp(ctx, &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)

	deducted, err := s.service.Deduct(ctx, s.testData.usAccount.ID, decimal.NewFromInt(11), "usage")
	s.NoError(err)
	s.False(deducted)

	balance, err := s.service.Balance(ctx, s.testData.usAccount.ID)
	s.NoError(err)
	s.True(balance.Balance.Equal(decimal.NewFromInt(10)))
}

func (s *WalletServiceSuite) TestHasSufficientBalance() {
	ctx := s.GetContext()
	_, err := s.service.TopUp(ctx, &dto.TopUpRequest{
		AccountID: s.testData.usAccount.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    types.PaymentMethodCard,
	})
	s.NoError(err)

	ok, err := s.service.HasSufficientBalance(ctx, s.testData.usAccount.ID, decimal.NewFromInt(10))
	s.NoError(err)
	s.True(ok)

	ok, err = s.service.HasSufficientBalance(ctx, s.testData.usAccount.ID, decimal.RequireFromString("10.01"))
	s.NoError(err)
	s.False(ok)
}

package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/voxbill/voxbill/internal/config"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/domain/call"
	"github.com/voxbill/voxbill/internal/domain/invoice"
	"github.com/voxbill/voxbill/internal/domain/payment"
	"github.com/voxbill/voxbill/internal/domain/plan"
	"github.com/voxbill/voxbill/internal/domain/rate"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/types"
	"github.com/voxbill/voxbill/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	AccountRepo  account.Repository
	RateRepo     rate.Repository
	PlanRepo     plan.Repository
	CallRepo     call.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	SequenceRepo payment.SequenceRepository
	WalletRepo   wallet.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	stores       Stores
	db           postgres.IClient
	logger       *logger.Logger
	config       *config.Configuration
	pdfGenerator *MockPDFGenerator
	now          time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		AccountRepo:  NewInMemoryAccountStore(),
		RateRepo:     NewInMemoryRateStore(),
		PlanRepo:     NewInMemoryPlanStore(),
		CallRepo:     NewInMemoryCallStore(),
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
		SequenceRepo: NewInMemorySequenceStore(),
		WalletRepo:   NewInMemoryWalletStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
	s.pdfGenerator = NewMockPDFGenerator()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.AccountRepo.(*InMemoryAccountStore).Clear()
	s.stores.RateRepo.(*InMemoryRateStore).Clear()
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.CallRepo.(*InMemoryCallStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.SequenceRepo.(*InMemorySequenceStore).Clear()
	s.stores.WalletRepo.(*InMemoryWalletStore).Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetPDFGenerator() *MockPDFGenerator {
	return s.pdfGenerator
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

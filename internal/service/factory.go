package service

import (
	"github.com/voxbill/voxbill/internal/config"
	"github.com/voxbill/voxbill/internal/domain/account"
	"github.com/voxbill/voxbill/internal/domain/call"
	"github.com/voxbill/voxbill/internal/domain/invoice"
	"github.com/voxbill/voxbill/internal/domain/payment"
	"github.com/voxbill/voxbill/internal/domain/plan"
	"github.com/voxbill/voxbill/internal/domain/rate"
	"github.com/voxbill/voxbill/internal/domain/wallet"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/pdf"
	"github.com/voxbill/voxbill/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	DB           postgres.IClient
	PDFGenerator pdf.Generator

	// Repositories
	AccountRepo  account.Repository
	RateRepo     rate.Repository
	PlanRepo     plan.Repository
	CallRepo     call.Repository
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	SequenceRepo payment.SequenceRepository
	WalletRepo   wallet.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	pdfGenerator pdf.Generator,
	accountRepo account.Repository,
	rateRepo rate.Repository,
	planRepo plan.Repository,
	callRepo call.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	sequenceRepo payment.SequenceRepository,
	walletRepo wallet.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		PDFGenerator: pdfGenerator,
		AccountRepo:  accountRepo,
		RateRepo:     rateRepo,
		PlanRepo:     planRepo,
		CallRepo:     callRepo,
		InvoiceRepo:  invoiceRepo,
		PaymentRepo:  paymentRepo,
		SequenceRepo: sequenceRepo,
		WalletRepo:   walletRepo,
	}
}

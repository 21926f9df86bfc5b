package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voxbill/voxbill/internal/api"
	v1 "github.com/voxbill/voxbill/internal/api/v1"
	"github.com/voxbill/voxbill/internal/config"
	"github.com/voxbill/voxbill/internal/logger"
	"github.com/voxbill/voxbill/internal/pdf"
	"github.com/voxbill/voxbill/internal/postgres"
	"github.com/voxbill/voxbill/internal/repository"
	"github.com/voxbill/voxbill/internal/service"
	"github.com/voxbill/voxbill/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			provideDBClient,

			// Receipt rendering
			pdf.NewNoopGenerator,

			// Repositories
			repository.NewAccountRepository,
			repository.NewRateRepository,
			repository.NewPlanRepository,
			repository.NewCallRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
			repository.NewSequenceRepository,
			repository.NewWalletRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewTaxService,
			service.NewHierarchyService,
			service.NewAccountService,
			service.NewCapacityService,
			service.NewRateService,
			service.NewWalletService,
			service.NewBillingService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDBClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	accountService service.AccountService,
	hierarchyService service.HierarchyService,
	capacityService service.CapacityService,
	rateService service.RateService,
	walletService service.WalletService,
	billingService service.BillingService,
	taxService service.TaxService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(),
		Account:   v1.NewAccountHandler(accountService, hierarchyService, rateService, billingService, logger),
		Hierarchy: v1.NewHierarchyHandler(hierarchyService, logger),
		Capacity:  v1.NewCapacityHandler(capacityService, logger),
		Wallet:    v1.NewWalletHandler(walletService, logger),
		Rate:      v1.NewRateHandler(rateService, logger),
		Invoice:   v1.NewInvoiceHandler(billingService, logger),
		Tax:       v1.NewTaxHandler(taxService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}

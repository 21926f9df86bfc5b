package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/voxbill/voxbill/internal/api/v1"
	"github.com/voxbill/voxbill/internal/rest/middleware"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Account   *v1.AccountHandler
	Hierarchy *v1.HierarchyHandler
	Capacity  *v1.CapacityHandler
	Wallet    *v1.WalletHandler
	Rate      *v1.RateHandler
	Invoice   *v1.InvoiceHandler
	Tax       *v1.TaxHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.TenantMiddleware)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	accounts := router.Group("/accounts")
	{
		accounts.POST("", handlers.Account.CreateAccount)
		accounts.GET("/:id", handlers.Account.GetAccount)
		accounts.PUT("/:id/parent", handlers.Account.UpdateParent)
		accounts.GET("/:id/descendants", handlers.Account.GetDescendants)
		accounts.GET("/:id/channel-info", handlers.Capacity.GetChannelInfo)
		accounts.GET("/:id/rates", handlers.Account.GetRates)
		accounts.GET("/:id/invoices", handlers.Account.GetInvoices)
	}

	router.GET("/resellers/:id/stats", handlers.Hierarchy.GetResellerStats)
	router.GET("/companies/:id/stats", handlers.Hierarchy.GetCompanyStats)

	calls := router.Group("/calls")
	{
		calls.POST("/admit", handlers.Capacity.AdmitCall)
		calls.POST("/release", handlers.Capacity.ReleaseCall)
	}

	wallets := router.Group("/wallets")
	{
		wallets.GET("/:account_id/balance", handlers.Wallet.GetBalance)
		wallets.POST("/:account_id/topup", handlers.Wallet.TopUp)
		wallets.POST("/:account_id/deduct", handlers.Wallet.Deduct)
	}

	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Rate.CreatePlan)
		plans.GET("/:id/rates", handlers.Rate.GetPlanRates)
	}
	router.POST("/rates", handlers.Rate.CreateRate)

	invoices := router.Group("/invoices")
	{
		invoices.POST("/generate", handlers.Invoice.GenerateInvoice)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
	}

	router.GET("/tax/preview", handlers.Tax.PreviewTax)
}

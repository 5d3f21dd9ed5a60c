package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"fleetbackend/internal/config"
	"fleetbackend/internal/gateway"
	h "fleetbackend/internal/http/handlers"
	"fleetbackend/internal/http/middleware"
	"fleetbackend/internal/repositories"
	"fleetbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires repositories, services and handlers onto a Gin engine.
// Everything under /api except health, auth and the gateway webhook requires
// a vendor bearer token.
func NewRouter(env config.Env, db *sql.DB) *gin.Engine {
	vendorRepo := repositories.VendorRepository{DB: db}
	driverRepo := repositories.DriverRepository{DB: db}
	vehicleRepo := repositories.VehicleRepository{DB: db}
	tripRepo := repositories.TripRepository{DB: db}
	commissionRepo := repositories.CommissionRepository{DB: db}
	walletRepo := repositories.WalletRepository{DB: db}
	paymentRepo := repositories.PaymentRepository{DB: db}

	zohoClient := gateway.NewClient(env.Zoho)

	walletSvc := services.WalletService{Wallets: walletRepo}
	payoutSvc := services.PayoutService{Trips: tripRepo}
	balanceSvc := services.BalanceService{
		Commissions: commissionRepo,
		Drivers:     driverRepo,
		Payouts:     payoutSvc,
	}
	paymentSvc := services.PaymentService{
		Vendors:  vendorRepo,
		Payments: paymentRepo,
		Wallet:   walletSvc,
		Gateway:  zohoClient,
		Live:     env.Zoho.Live(),
	}
	webhookSvc := services.WebhookService{
		Payments:      paymentRepo,
		Wallets:       walletRepo,
		SigningKey:    env.Zoho.SigningKey,
		AllowUnsigned: env.WebhookAllowUnsigned,
	}
	statementSvc := services.StatementService{Vendors: vendorRepo, Wallets: walletRepo}
	reportsSvc := services.ReportsService{Balances: balanceSvc}

	system := h.SystemHandler{DB: db}
	auth := h.AuthHandler{Vendors: vendorRepo, JWTSecret: []byte(env.JWTSecret)}
	drivers := h.DriverHandler{Drivers: driverRepo}
	vehicles := h.VehicleHandler{Vehicles: vehicleRepo}
	commissions := h.CommissionHandler{Commissions: commissionRepo}
	wallet := h.WalletHandler{Wallet: walletSvc, Statement: statementSvc}
	balance := h.BalanceHandler{Balance: balanceSvc}
	payments := h.PaymentHandler{Payments: paymentSvc}
	webhook := h.WebhookHandler{Webhook: webhookSvc}
	reports := h.ReportsHandler{Reports: reportsSvc}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/register", auth.Register)

		// Gateway callbacks authenticate via HMAC signature, not JWT.
		webhooks := api.Group("/webhooks")
		webhooks.POST("/zoho", webhook.Zoho)

		protected := api.Group("")
		protected.Use(middleware.VendorAuth([]byte(env.JWTSecret)))
		{
			driversGroup := protected.Group("/drivers")
			driversGroup.GET("", drivers.List)
			driversGroup.GET("/:id", drivers.Get)
			driversGroup.POST("", drivers.Create)
			driversGroup.PUT("/:id", drivers.Update)
			driversGroup.DELETE("/:id", drivers.Delete)

			vehiclesGroup := protected.Group("/vehicles")
			vehiclesGroup.GET("", vehicles.List)
			vehiclesGroup.GET("/:id", vehicles.Get)
			vehiclesGroup.POST("", vehicles.Create)
			vehiclesGroup.PUT("/:id", vehicles.Update)
			vehiclesGroup.DELETE("/:id", vehicles.Delete)

			protected.PUT("/commissions", commissions.Upsert)
			protected.GET("/commissions", commissions.Get)

			walletGroup := protected.Group("/wallet")
			walletGroup.GET("", wallet.Get)
			walletGroup.POST("/credit", wallet.Credit)
			walletGroup.POST("/debit", wallet.Debit)
			walletGroup.GET("/transactions", wallet.Transactions)
			walletGroup.GET("/statement.pdf", wallet.StatementPDF)

			protected.GET("/balance", balance.Get)
			protected.GET("/balance/series", balance.Series)

			paymentsGroup := protected.Group("/payments")
			paymentsGroup.POST("/initiate", payments.Initiate)
			paymentsGroup.GET("/:id", payments.Get)
			paymentsGroup.GET("/:id/qr", payments.QR)

			protected.GET("/reports/earnings.xlsx", reports.EarningsXLSX)
		}
	}

	return r
}

// Package routes wires services to HTTP endpoints.
package routes

import (
	"pagcore/internal/config"
	"pagcore/internal/handlers"
	"pagcore/internal/middleware"
	"pagcore/internal/repositories"
	"pagcore/internal/services/account"
	"pagcore/internal/services/auth"
	"pagcore/internal/services/ledger"
	"pagcore/internal/services/request"
	"pagcore/internal/services/settlement"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes builds the service graph and registers all routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	txRepo := repositories.NewTransactionRepository(db)

	ledgerSvc := ledger.NewService(walletRepo, repositories.CacheService)
	accountSvc := account.NewService(userRepo, repositories.CacheService)
	tokenTTL := config.GetDurationEnv("QR_TOKEN_TTL", settlement.DefaultTokenTTL)
	settlementSvc := settlement.NewService(tokenRepo, ledgerSvc, accountSvc, settlement.WithTTL(tokenTTL))
	requestSvc := request.NewService(requestRepo, ledgerSvc, accountSvc)
	authSvc := auth.NewService(userRepo, ledgerSvc)

	authHandler := handlers.NewAuthHandler(authSvc)
	qrHandler := handlers.NewQRHandler(settlementSvc)
	paymentHandler := handlers.NewPaymentHandler(requestSvc)
	transferHandler := handlers.NewTransferHandler(ledgerSvc, accountSvc)
	profileHandler := handlers.NewProfileHandler(accountSvc, ledgerSvc, authSvc)
	dashboardHandler := handlers.NewDashboardHandler(ledgerSvc, accountSvc, txRepo)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected endpoints
	protected := api.Use(middleware.Auth())

	protected.Get("/dashboard", dashboardHandler.GetDashboard)
	protected.Get("/transactions", dashboardHandler.GetTransactions)
	protected.Post("/transfer", transferHandler.MakeTransfer)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	qr := protected.Group("/qr")
	qr.Post("/generate", qrHandler.GenerateQR)
	qr.Get("/:code", qrHandler.GetQR)
	qr.Post("/redeem", qrHandler.RedeemQR)
	qr.Post("/:code/cancel", qrHandler.CancelQR)

	payment := protected.Group("/payment")
	payment.Get("/payment-requests", paymentHandler.ListRequests)
	payment.Post("/request", paymentHandler.CreateRequest)
	payment.Post("/accept/:id", paymentHandler.AcceptRequest)
	payment.Post("/decline/:id", paymentHandler.DeclineRequest)
}

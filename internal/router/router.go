package router

import (
	"time"

	"rifa/config"
	"rifa/internal/handler"
	"rifa/internal/middleware"
	"rifa/internal/repository"
	"rifa/internal/service"
	"rifa/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	raffleRepo := repository.NewRaffleRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	winnerRepo := repository.NewWinnerRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	ledger := repository.NewLedgerRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	raffleSvc := service.NewRaffleService(&cfg.Raffle, raffleRepo, ledger)
	purchaseSvc := service.NewPurchaseService(&cfg.Raffle, raffleRepo, ledger)
	reviewSvc := service.NewReviewService(&cfg.Raffle, txnRepo, ledger)
	drawSvc := service.NewDrawService(raffleRepo, ticketRepo, userRepo, ledger)
	affiliateSvc := service.NewAffiliateService(affiliateRepo, txnRepo, cfg.Raffle.DefaultCommissionRate)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	raffleHandler := handler.NewRaffleHandler(raffleSvc, raffleRepo, winnerRepo)
	ticketHandler := handler.NewTicketHandler(purchaseSvc, ticketRepo)
	txnHandler := handler.NewTransactionHandler(reviewSvc, cloud)
	paymentHandler := handler.NewAdminPaymentHandler(reviewSvc)
	drawHandler := handler.NewDrawHandler(drawSvc)
	affiliateHandler := handler.NewAffiliateHandler(affiliateSvc)
	activityHandler := handler.NewActivityHandler(txnRepo, cfg.Raffle.ActivityFeedDefaultLimit)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		api.GET("/raffles", raffleHandler.List)
		api.GET("/raffles/:id", raffleHandler.Get)
		api.GET("/raffles/:id/winners", raffleHandler.Winners)

		api.POST("/tickets", ticketHandler.Purchase)
		api.GET("/tickets", ticketHandler.ListMine)
		api.POST("/transactions/:id/proof", txnHandler.SubmitProof)
		api.GET("/activity", activityHandler.Recent)
		api.POST("/users/identify", authHandler.Identify)

		admin := api.Group("/admin")
		{
			admin.POST("/login", authHandler.AdminLogin)
			admin.POST("/refresh", authHandler.Refresh)

			gated := admin.Group("")
			gated.Use(authMw, adminMw)
			{
				gated.GET("/payments", paymentHandler.List)
				gated.PATCH("/payments/:id", paymentHandler.Review)
				gated.GET("/affiliates", affiliateHandler.List)
				gated.POST("/affiliates", affiliateHandler.Create)
				gated.GET("/affiliates/earnings", affiliateHandler.Earnings)
				gated.GET("/affiliates/:id", affiliateHandler.Get)
				gated.PATCH("/affiliates/:id", affiliateHandler.Update)
				gated.DELETE("/affiliates/:id", affiliateHandler.Delete)
			}
		}

		api.POST("/raffles", authMw, adminMw, raffleHandler.Create)
		api.PATCH("/raffles/:id", authMw, adminMw, raffleHandler.Update)
		api.DELETE("/raffles/:id", authMw, adminMw, raffleHandler.Cancel)
		api.POST("/execute-raffle", authMw, adminMw, drawHandler.Execute)
	}

	return r
}

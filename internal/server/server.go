package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/AminElhag/Liyaqa-sub011/internal/auth"
	"github.com/AminElhag/Liyaqa-sub011/internal/cancellation"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/club"
	"github.com/AminElhag/Liyaqa-sub011/internal/config"
	"github.com/AminElhag/Liyaqa-sub011/internal/contract"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/notification"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
	"github.com/AminElhag/Liyaqa-sub011/internal/planchange"
	"github.com/AminElhag/Liyaqa-sub011/internal/subscription"
	"github.com/AminElhag/Liyaqa-sub011/internal/wallet"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config

	clubs         club.Service
	subscriptions subscription.Service
	contracts     contract.Service
	planChanges   planchange.Service
	cancellations cancellation.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifier notification.Notifier) *Server {
	clk := clock.System{}

	clubs := club.NewService(club.NewRepository(db))
	plans := plan.NewService(plan.NewRepository(db))
	members := member.NewService(member.NewRepository(db), cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	subs := subscription.NewService(subscription.NewRepository(db), plans, members, notifier, clk)
	wallets := wallet.NewService(wallet.NewRepository(db))
	contracts := contract.NewService(contract.NewRepository(db), clubs, plans, subs, members, clk)
	planChanges := planchange.NewService(planchange.NewRepository(db), plans, subs, wallets, members, notifier, clk)
	cancellations := cancellation.NewService(cancellation.NewRepository(db),
		clubs, subs, contracts, plans, members, wallets, planChanges, notifier, clk)

	memberHandler := member.NewHandler(members)
	clubHandler := club.NewHandler(clubs)
	planHandler := plan.NewHandler(plans)
	subHandler := subscription.NewHandler(subs)
	walletHandler := wallet.NewHandler(wallets)
	contractHandler := contract.NewHandler(contracts)
	planChangeHandler := planchange.NewHandler(planChanges)
	cancellationHandler := cancellation.NewHandler(cancellations)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTAccessSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.GetMe)

		protected.GET("/clubs", clubHandler.ListClubs)
		protected.GET("/clubs/:clubID", clubHandler.GetClub)

		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/plans/:planID", planHandler.GetPlan)
		protected.GET("/plans/:planID/tiers", planHandler.ListTiers)

		protected.POST("/subscriptions", subHandler.Create)
		protected.GET("/subscriptions", subHandler.ListMine)
		protected.GET("/subscriptions/:subID", subHandler.Get)
		protected.POST("/subscriptions/:subID/freeze", subHandler.Freeze)
		protected.POST("/subscriptions/:subID/unfreeze", subHandler.Unfreeze)
		protected.POST("/subscriptions/:subID/use-class", subHandler.UseClass)
		protected.POST("/subscriptions/:subID/use-guest-pass", subHandler.UseGuestPass)

		protected.GET("/contracts", contractHandler.ListMine)
		protected.GET("/contracts/:contractID", contractHandler.Get)
		protected.POST("/contracts/:contractID/sign", contractHandler.Sign)
		protected.POST("/contracts/:contractID/cooling-off-cancel", contractHandler.CancelWithinCoolingOff)
		protected.GET("/contracts/:contractID/termination-fee", contractHandler.PreviewTerminationFee)

		protected.POST("/subscriptions/:subID/plan-change/preview", planChangeHandler.Preview)
		protected.POST("/subscriptions/:subID/plan-change", planChangeHandler.Execute)
		protected.GET("/subscriptions/:subID/plan-change/scheduled", planChangeHandler.GetPendingScheduled)
		protected.GET("/subscriptions/:subID/plan-change/history", planChangeHandler.ListHistory)
		protected.DELETE("/plan-changes/scheduled/:changeID", planChangeHandler.CancelScheduled)

		protected.GET("/subscriptions/:subID/cancellation-preview", cancellationHandler.Preview)
		protected.POST("/cancellations", cancellationHandler.Create)
		protected.GET("/cancellations", cancellationHandler.ListMine)
		protected.GET("/cancellations/:requestID", cancellationHandler.Get)
		protected.POST("/cancellations/:requestID/withdraw", cancellationHandler.Withdraw)
		protected.GET("/cancellations/:requestID/offers", cancellationHandler.ListOffers)
		protected.POST("/cancellations/:requestID/survey", cancellationHandler.SubmitSurvey)
		protected.POST("/offers/:offerID/accept", cancellationHandler.AcceptOffer)
		protected.POST("/offers/:offerID/decline", cancellationHandler.DeclineOffer)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/wallet/credit", walletHandler.Credit)
	}

	staffMiddleware := auth.RequireRole(auth.RoleStaff, auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, staffMiddleware)
	{
		admin.POST("/clubs", clubHandler.CreateClub)
		admin.PATCH("/clubs/:clubID/policy", clubHandler.UpdatePolicy)

		admin.GET("/members", memberHandler.ListMembers)
		admin.POST("/members/:memberID/wallet/adjust", walletHandler.Adjust)

		admin.POST("/plans", planHandler.CreatePlan)
		admin.DELETE("/plans/:planID", planHandler.DeactivatePlan)
		admin.POST("/plans/:planID/tiers", planHandler.CreateTier)

		admin.POST("/contracts", contractHandler.Create)
		admin.POST("/contracts/:contractID/approve", contractHandler.Approve)
		admin.POST("/contracts/:contractID/suspend", contractHandler.Suspend)
		admin.POST("/contracts/:contractID/reactivate", contractHandler.Reactivate)

		admin.POST("/subscriptions/:subID/renew", subHandler.Renew)
		admin.POST("/subscriptions/:subID/confirm-payment", subHandler.ConfirmPayment)

		admin.POST("/cancellations/:requestID/waive-fee", cancellationHandler.WaiveFee)
		admin.GET("/cancellations/analytics", cancellationHandler.Analytics)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,

		clubs:         clubs,
		subscriptions: subs,
		contracts:     contracts,
		planChanges:   planChanges,
		cancellations: cancellations,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

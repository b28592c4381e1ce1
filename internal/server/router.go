package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dreamnet/dreamnet-backend/internal/handlers"
	"github.com/dreamnet/dreamnet-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	DreamHandler        *handlers.DreamHandler
	CocoonHandler       *handlers.CocoonHandler
	ContributorHandler  *handlers.ContributorHandler
	InviteHandler       *handlers.InviteHandler
	TokenHandler        *handlers.TokenHandler
	FeedHandler         *handlers.FeedHandler
	HarvestHandler      *handlers.HarvestHandler
	NotificationHandler *handlers.NotificationHandler
	DreamCoreHandler    *handlers.DreamCoreHandler
	AdminHandler        *handlers.AdminHandler
	SSEHandler          *handlers.SSEHandler
	HealthcheckHandler  *handlers.HealthcheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("dreamnet-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)

		// Dreams
		api.POST("/dream", cfg.DreamHandler.Create)
		api.GET("/dream", cfg.DreamHandler.List)
		api.GET("/dream/:id", cfg.DreamHandler.Get)
		api.PATCH("/dream/:id", cfg.DreamHandler.Edit)
		api.POST("/dream/:id/engagement", cfg.DreamHandler.RecordEngagement)
		api.POST("/dream/:id/evolve", cfg.DreamHandler.Evolve)
		api.GET("/dream/:id/tokens", cfg.TokenHandler.ListByDream)

		// Cocoons
		api.GET("/cocoon", cfg.CocoonHandler.List)
		api.GET("/cocoon/:id", cfg.CocoonHandler.Get)
		api.GET("/cocoon/:id/logs", cfg.CocoonHandler.Logs)
		api.GET("/cocoon/:id/contributors", cfg.ContributorHandler.List)
		api.GET("/cocoon/:id/contributors/history", cfg.ContributorHandler.History)
		api.POST("/cocoon/:id/contributors", cfg.ContributorHandler.Add)
		api.DELETE("/cocoon/:id/contributors/:wallet", cfg.ContributorHandler.Remove)
		api.GET("/cocoon/:id/tokens", cfg.TokenHandler.ListByCocoon)
		api.POST("/cocoon/:id/notes", cfg.CocoonHandler.AppendNote)

		// Invites
		api.POST("/invite", cfg.InviteHandler.Create)
		api.GET("/invite", cfg.InviteHandler.ListPending)
		api.POST("/invite/:id/respond", cfg.InviteHandler.Respond)

		// Garden feed and metrics
		api.GET("/garden/feed", cfg.FeedHandler.Garden)
		api.GET("/garden/tags", cfg.FeedHandler.Tags)
		api.GET("/garden/metrics", cfg.FeedHandler.Metrics)

		// Harvest
		api.GET("/harvest/:wallet", cfg.HarvestHandler.Yield)
		api.POST("/harvest/:wallet/claim-all", cfg.HarvestHandler.ClaimAll)
		api.POST("/harvest/claim/:id", cfg.HarvestHandler.Claim)

		// Tokens and notifications per wallet
		api.GET("/wallet/:wallet/tokens", cfg.TokenHandler.ListByWallet)
		api.GET("/wallet/:wallet/notifications", cfg.NotificationHandler.List)
		api.GET("/wallet/:wallet/notifications/unread", cfg.NotificationHandler.UnreadCount)
		api.POST("/wallet/:wallet/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
		api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

		// Contributors leaderboard
		api.GET("/contributors/top", cfg.ContributorHandler.Top)

		// SSE
		api.GET("/sse/stream", cfg.SSEHandler.Stream)
	}

	// ===============
	// || Operator  ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireOperator())
	{
		admin.POST("/dream/:id/status", cfg.DreamHandler.UpdateStatus)
		admin.POST("/dream/:id/score", cfg.DreamHandler.SetScore)
		admin.POST("/dream/:id/score/recalculate", cfg.DreamHandler.RecalculateScore)
		admin.POST("/dream/:id/ai-score", cfg.DreamHandler.RefreshAIScore)
		admin.DELETE("/dream/:id", cfg.DreamHandler.Delete)

		admin.POST("/cocoon/:id/stage", cfg.CocoonHandler.UpdateStage)
		admin.POST("/cocoon/:id/stage/force", cfg.CocoonHandler.ForceStage)
		admin.POST("/cocoon/:id/score", cfg.CocoonHandler.UpdateScore)
		admin.POST("/cocoon/:id/mint", cfg.CocoonHandler.Mint)

		admin.POST("/archive/sweep", cfg.AdminHandler.RunArchiveSweep)
		admin.POST("/wallet/recalculate", cfg.AdminHandler.RecalculateWallet)

		admin.POST("/core", cfg.DreamCoreHandler.Create)
		admin.GET("/core", cfg.DreamCoreHandler.List)
		admin.GET("/core/:id", cfg.DreamCoreHandler.Get)
		admin.PATCH("/core/:id", cfg.DreamCoreHandler.Update)
		admin.DELETE("/core/:id", cfg.DreamCoreHandler.Delete)
	}

	return router
}

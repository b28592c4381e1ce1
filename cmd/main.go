package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dreamnet/dreamnet-backend/internal/config"
	"github.com/dreamnet/dreamnet-backend/internal/db"
	"github.com/dreamnet/dreamnet-backend/internal/graph"
	"github.com/dreamnet/dreamnet-backend/internal/handlers"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/middleware"
	"github.com/dreamnet/dreamnet-backend/internal/observability"
	"github.com/dreamnet/dreamnet-backend/internal/realtime"
	"github.com/dreamnet/dreamnet-backend/internal/realtime/bus"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/scheduler"
	"github.com/dreamnet/dreamnet-backend/internal/server"
	"github.com/dreamnet/dreamnet-backend/internal/services"
	"github.com/dreamnet/dreamnet-backend/internal/webhook"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cfg := config.Load(log)

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "dreamnet-backend",
		Environment: os.Getenv("DEPLOY_ENV"),
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	if shutdownTracing != nil {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Graph mirror (optional)
	graphClient, err := graph.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed, graph mirroring disabled", "error", err)
		graphClient = nil
	}
	if graphClient != nil {
		defer func() { _ = graphClient.Close(context.Background()) }()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	dreamRepo := repos.NewDreamRepo(thePG, log)
	cocoonRepo := repos.NewCocoonRepo(thePG, log)
	cocoonLogRepo := repos.NewCocoonLogRepo(thePG, log)
	contributorsLogRepo := repos.NewContributorsLogRepo(thePG, log)
	chainRepo := repos.NewEvolutionChainRepo(thePG, log)
	inviteRepo := repos.NewDreamInviteRepo(thePG, log)
	tokenRepo := repos.NewDreamTokenRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	walletRepo := repos.NewWalletRepo(thePG, log)
	coreRepo := repos.NewDreamCoreRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := realtime.NewSSEHub(log)

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
	sseBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis SSE bus unavailable, using in-process hub only", "error", err)
	} else {
		if err := sseBus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
			log.Warn("Redis SSE forwarder failed to start", "error", err)
		} else {
			emitter = &services.RedisEmitter{Bus: sseBus}
		}
		defer func() { _ = sseBus.Close() }()
	}

	// Webhooks
	webhookNotifier := webhook.NewNotifier(log)

	// Services
	log.Info("Setting up Services from main...")
	notifierService := services.NewNotifierService(log, notificationRepo, emitter)
	authService := services.NewAuthService(thePG, log, userRepo, walletRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	dreamService := services.NewDreamService(thePG, log, dreamRepo, notifierService, graphClient)
	tokenService := services.NewTokenService(thePG, log, tokenRepo, notifierService)
	cocoonService := services.NewCocoonService(
		thePG,
		log,
		dreamRepo,
		cocoonRepo,
		cocoonLogRepo,
		chainRepo,
		tokenService,
		notifierService,
		webhookNotifier,
		graphClient,
		cfg.PublicURL,
	)
	contributorService := services.NewContributorService(thePG, log, cocoonRepo, contributorsLogRepo, notifierService)
	inviteService := services.NewInviteService(thePG, log, inviteRepo, dreamRepo, cocoonRepo, contributorService, notifierService)
	harvestService := services.NewHarvestService(thePG, log, dreamRepo)
	archiveService := services.NewArchiveService(thePG, log, dreamRepo, cocoonRepo, cocoonLogRepo, notifierService)
	feedService := services.NewFeedService(thePG, log, dreamRepo, cocoonRepo, tokenRepo)
	walletService := services.NewWalletService(thePG, log, walletRepo, dreamRepo, tokenRepo)
	coreService := services.NewDreamCoreService(thePG, log, coreRepo)

	// Scheduler
	archiveScheduler := scheduler.NewArchiveScheduler(archiveService, cfg.ArchiveSweepSpec, cfg.InactivityDaysBeforeArchive, log)
	if err := archiveScheduler.Start(); err != nil {
		log.Warn("Archive scheduler failed to start", "error", err)
	}
	defer archiveScheduler.Stop()

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	dreamHandler := handlers.NewDreamHandler(dreamService, cocoonService)
	cocoonHandler := handlers.NewCocoonHandler(cocoonService)
	contributorHandler := handlers.NewContributorHandler(contributorService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	tokenHandler := handlers.NewTokenHandler(tokenService)
	feedHandler := handlers.NewFeedHandler(feedService)
	harvestHandler := handlers.NewHarvestHandler(harvestService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	coreHandler := handlers.NewDreamCoreHandler(coreService)
	adminHandler := handlers.NewAdminHandler(archiveService, walletService, cfg.InactivityDaysBeforeArchive)
	sseHandler := handlers.NewSSEHandler(sseHub)
	healthcheckHandler := handlers.NewHealthcheckHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService, cfg.OperatorToken)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		DreamHandler:        dreamHandler,
		CocoonHandler:       cocoonHandler,
		ContributorHandler:  contributorHandler,
		InviteHandler:       inviteHandler,
		TokenHandler:        tokenHandler,
		FeedHandler:         feedHandler,
		HarvestHandler:      harvestHandler,
		NotificationHandler: notificationHandler,
		DreamCoreHandler:    coreHandler,
		AdminHandler:        adminHandler,
		SSEHandler:          sseHandler,
		HealthcheckHandler:  healthcheckHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

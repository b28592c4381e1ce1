package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dreamnet/dreamnet-backend/internal/db"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/realtime"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/services"
	"github.com/dreamnet/dreamnet-backend/internal/types"
	"github.com/dreamnet/dreamnet-backend/internal/webhook"
)

// Walks a single dream through the full lifecycle: create, score, approve,
// evolve, advance every cocoon stage, and report the mint outcome.
func main() {
	var wallet string
	var score int
	flag.StringVar(&wallet, "wallet", "orchestrator-wallet", "creator wallet for the demo dream")
	flag.IntVar(&score, "score", 85, "dream score to assign before evolution")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	dreamRepo := repos.NewDreamRepo(thePG, log)
	cocoonRepo := repos.NewCocoonRepo(thePG, log)
	cocoonLogRepo := repos.NewCocoonLogRepo(thePG, log)
	chainRepo := repos.NewEvolutionChainRepo(thePG, log)
	tokenRepo := repos.NewDreamTokenRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	hub := realtime.NewSSEHub(log)
	notifier := services.NewNotifierService(log, notificationRepo, &services.HubEmitter{Hub: hub})
	dreamService := services.NewDreamService(thePG, log, dreamRepo, notifier, nil)
	tokenService := services.NewTokenService(thePG, log, tokenRepo, notifier)
	cocoonService := services.NewCocoonService(
		thePG,
		log,
		dreamRepo,
		cocoonRepo,
		cocoonLogRepo,
		chainRepo,
		tokenService,
		notifier,
		webhook.NewNotifier(log),
		nil,
		"http://localhost:8080",
	)

	ctx := context.Background()

	dream, err := dreamService.Create(ctx, services.CreateDreamInput{
		Wallet:      wallet,
		Title:       "Orchestrated Lifecycle Demo",
		Description: "An innovative blockchain community project walked through every stage.",
		Tags:        []string{"demo", "blockchain"},
		Urgency:     3,
		Origin:      "orchestrator",
	})
	if err != nil {
		log.Error("Create dream failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("created dream %s (ai_score=%d)\n", dream.ID, *dream.AIScore)

	if _, err := dreamService.SetScore(ctx, dream.ID, score, nil); err != nil {
		log.Error("Set score failed", "error", err)
		os.Exit(1)
	}
	if _, err := dreamService.UpdateStatus(ctx, dream.ID, types.DreamApproved, wallet); err != nil {
		log.Error("Approve failed", "error", err)
		os.Exit(1)
	}

	cocoon, err := cocoonService.EvolveDream(ctx, dream.ID)
	if err != nil {
		log.Error("Evolve failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("evolved into cocoon %s (stage=%s)\n", cocoon.ID, cocoon.Stage)

	for _, stage := range []types.CocoonStage{
		types.StageIncubating,
		types.StageActive,
		types.StageMetamorphosis,
		types.StageEmergence,
		types.StageComplete,
	} {
		cocoon, err = cocoonService.UpdateStage(ctx, cocoon.ID, stage, wallet, "orchestrated walk")
		if err != nil {
			log.Error("Stage update failed", "stage", stage, "error", err)
			os.Exit(1)
		}
		fmt.Printf("advanced to stage %s\n", cocoon.Stage)
	}

	cocoon, err = cocoonService.Get(ctx, cocoon.ID)
	if err != nil {
		log.Error("Reload cocoon failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("minted=%v\n", cocoon.Minted)

	tokens, err := tokenService.ListByCocoon(ctx, cocoon.ID)
	if err != nil {
		log.Error("List tokens failed", "error", err)
		os.Exit(1)
	}
	for _, token := range tokens {
		fmt.Printf("token %s purpose=%s holder=%s\n", token.ID, token.Purpose, token.HolderWallet)
	}
}

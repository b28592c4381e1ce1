package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/dreamnet/dreamnet-backend/internal/db"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/realtime"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/services"
)

var seedTitles = []string{
	"AI Tutoring for Rural Schools",
	"Blockchain Land Registry",
	"Community Solar Microgrids",
	"Decentralized Health Records",
	"NFT Royalties for Street Artists",
	"Climate Data DAO",
	"Accessibility-First Web3 Wallet",
	"Token-Gated Learning Circles",
	"Smart Contract Escrow for Freelancers",
	"Metaverse Museum of Lost Crafts",
}

var seedTags = [][]string{
	{"education", "ai"},
	{"blockchain", "governance"},
	{"climate", "community"},
	{"health", "privacy"},
	{"nft", "art"},
	{"climate", "dao"},
	{"accessibility", "web3"},
	{"token", "education"},
	{"defi", "work"},
	{"metaverse", "culture"},
}

var seedOrigins = []string{"web", "flutterbye", "api"}

func main() {
	var count int
	var wallet string
	flag.IntVar(&count, "count", 10, "number of dreams to seed")
	flag.StringVar(&wallet, "wallet", "", "wallet to own the seeded dreams (random per dream when empty)")
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
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	hub := realtime.NewSSEHub(log)
	notifier := services.NewNotifierService(log, notificationRepo, &services.HubEmitter{Hub: hub})
	dreamService := services.NewDreamService(thePG, log, dreamRepo, notifier, nil)

	ctx := context.Background()
	for i := 0; i < count; i++ {
		idx := i % len(seedTitles)
		owner := wallet
		if owner == "" {
			owner = fmt.Sprintf("seed-wallet-%04d", rand.Intn(10000))
		}
		dream, err := dreamService.Create(ctx, services.CreateDreamInput{
			Wallet:      owner,
			Title:       seedTitles[idx],
			Description: fmt.Sprintf("Seeded dream #%d: %s", i+1, seedTitles[idx]),
			Tags:        seedTags[idx],
			Urgency:     1 + rand.Intn(5),
			Origin:      seedOrigins[rand.Intn(len(seedOrigins))],
		})
		if err != nil {
			log.Error("Seed dream failed", "index", i, "error", err)
			continue
		}
		fmt.Printf("seeded dream %s (%q, ai_score=%d)\n", dream.ID, dream.Title, *dream.AIScore)
	}
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func TestGardenFeedOrderingAndStageJoin(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	svc := NewFeedService(gdb, log, dreamRepo, cocoonRepo, tokenRepo)
	ctx := context.Background()

	low, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: "w1", Title: "Low Score", DreamStatus: types.DreamApproved, DreamScore: 30,
	})
	require.NoError(t, err)

	high, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: "w2", Title: "High Score", DreamStatus: types.DreamEvolved, DreamScore: 90, Evolved: true,
	})
	require.NoError(t, err)

	// Pending dreams never surface in the garden.
	_, err = dreamRepo.Create(ctx, nil, &types.Dream{Wallet: "w3", Title: "Hidden Pending"})
	require.NoError(t, err)

	_, err = cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID: high.ID, Title: high.Title, Description: "x",
		CreatorWallet: "w2", Stage: types.StageActive, DreamScore: 90,
	})
	require.NoError(t, err)

	feed, err := svc.GardenFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, high.ID, feed[0].Dream.ID)
	require.NotNil(t, feed[0].Stage)
	require.Equal(t, types.StageActive, *feed[0].Stage)
	require.Equal(t, low.ID, feed[1].Dream.ID)
	require.Nil(t, feed[1].Stage)
}

func TestTagCloudCounts(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	svc := NewFeedService(gdb, log, dreamRepo, cocoonRepo, tokenRepo)
	ctx := context.Background()

	for _, tags := range [][]string{
		{"climate", "community"},
		{"climate"},
		{"art"},
	} {
		_, err := dreamRepo.Create(ctx, nil, &types.Dream{
			Wallet: "w", Title: "Tagged", DreamStatus: types.DreamApproved,
			Tags: datatypes.JSONSlice[string](tags),
		})
		require.NoError(t, err)
	}

	cloud, err := svc.TagCloud(ctx)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, entry := range cloud {
		counts[entry.Tag] = entry.Count
	}
	require.Equal(t, 2, counts["climate"])
	require.Equal(t, 1, counts["community"])
	require.Equal(t, 1, counts["art"])
}

func TestDashboardMetrics(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	svc := NewFeedService(gdb, log, dreamRepo, cocoonRepo, tokenRepo)
	ctx := context.Background()

	_, err := dreamRepo.Create(ctx, nil, &types.Dream{Wallet: "w", Title: "Pending One"})
	require.NoError(t, err)
	dream, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: "w", Title: "Approved One", DreamStatus: types.DreamApproved,
	})
	require.NoError(t, err)

	cocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID: dream.ID, Title: dream.Title, Description: "x",
		CreatorWallet: "w", Stage: types.StageActive,
	})
	require.NoError(t, err)

	for _, purpose := range []types.TokenPurpose{types.PurposeBadge, types.PurposeMint, types.PurposeMint} {
		_, err := tokenRepo.Create(ctx, nil, &types.DreamToken{
			DreamID: dream.ID, CocoonID: &cocoon.ID, HolderWallet: "w",
			Purpose: purpose, Milestone: string(types.StageActive),
		})
		require.NoError(t, err)
	}

	metrics, err := svc.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), metrics.DreamsPending)
	require.Equal(t, int64(1), metrics.DreamsApproved)
	require.Equal(t, int64(1), metrics.CocoonsActive)
	require.Equal(t, int64(1), metrics.BadgeTokens)
	require.Equal(t, int64(2), metrics.MintTokens)
	require.Equal(t, int64(0), metrics.VoteTokens)
}

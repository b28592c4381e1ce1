package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func TestWalletRecalculateAggregates(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	walletRepo := repos.NewWalletRepo(gdb, log)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	svc := NewWalletService(gdb, log, walletRepo, dreamRepo, tokenRepo)
	ctx := context.Background()

	userID := uuid.NewString()
	address := "holder-wallet"

	d1, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: address, Title: "First", DreamScore: 40, TotalEarned: 1.5,
	})
	require.NoError(t, err)
	_, err = dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: address, Title: "Second", DreamScore: 75, TotalEarned: 2.0,
	})
	require.NoError(t, err)

	for _, purpose := range []types.TokenPurpose{
		types.PurposeBadge, types.PurposeVote, types.PurposeMint,
	} {
		_, err := tokenRepo.Create(ctx, nil, &types.DreamToken{
			DreamID: d1.ID, HolderWallet: address,
			Purpose: purpose, Milestone: string(types.StageActive),
		})
		require.NoError(t, err)
	}

	wallet, err := svc.Recalculate(ctx, userID, address)
	require.NoError(t, err)
	require.Equal(t, 75, wallet.DreamScore)
	require.Equal(t, 2, wallet.CocoonTokens)
	require.Equal(t, 1, wallet.CoreFragments)
	require.InDelta(t, 3.5, wallet.TotalValue, 1e-9)

	// The wallet row was created on first recalculation and is reused.
	existing, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, wallet.ID, existing.ID)
}

func TestWalletGetOrCreateIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	walletRepo := repos.NewWalletRepo(gdb, log)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	svc := NewWalletService(gdb, log, walletRepo, dreamRepo, tokenRepo)
	ctx := context.Background()

	userID := uuid.NewString()
	first, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func seedHarvestDream(t *testing.T, gdb *gorm.DB, dreamRepo repos.DreamRepo, score int, evolved bool, ageDays int) *types.Dream {
	t.Helper()
	ctx := context.Background()
	dream, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet:     "harvest-wallet",
		Title:      "Yield Farm",
		DreamScore: score,
		Evolved:    evolved,
	})
	require.NoError(t, err)

	created := time.Now().UTC().AddDate(0, 0, -ageDays)
	require.NoError(t, gdb.Model(&types.Dream{}).
		Where("id = ?", dream.ID).
		Update("created_at", created).Error)
	dream.CreatedAt = created
	return dream
}

func TestDailyYieldMath(t *testing.T) {
	require.InDelta(t, 0.1, dailyYield(&types.Dream{DreamScore: 0}), 1e-9)
	require.InDelta(t, 0.1, dailyYield(&types.Dream{DreamScore: 5}), 1e-9)
	require.InDelta(t, 0.6, dailyYield(&types.Dream{DreamScore: 60}), 1e-9)
	require.InDelta(t, 0.9, dailyYield(&types.Dream{DreamScore: 60, Evolved: true}), 1e-9)
}

func TestPendingYieldRespectsScoreThreshold(t *testing.T) {
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -10)

	low := &types.Dream{DreamScore: HarvestScoreThreshold - 1, CreatedAt: old}
	require.Zero(t, pendingYield(low, now))

	ok := &types.Dream{DreamScore: 50, CreatedAt: old}
	require.InDelta(t, 5.0, pendingYield(ok, now), 0.01)

	// Claims restart the accrual window.
	claimed := now.AddDate(0, 0, -2)
	ok.LastClaimedAt = &claimed
	require.InDelta(t, 1.0, pendingYield(ok, now), 0.01)
}

func TestClaimUpdatesEarningsAndWindow(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	svc := NewHarvestService(gdb, log, dreamRepo)
	ctx := context.Background()

	dream := seedHarvestDream(t, gdb, dreamRepo, 80, false, 5)

	result, err := svc.Claim(ctx, dream.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.0, result.Amount, 0.01)

	reloaded, err := dreamRepo.GetByID(ctx, nil, dream.ID)
	require.NoError(t, err)
	require.InDelta(t, result.Amount, reloaded.TotalEarned, 1e-9)
	require.NotNil(t, reloaded.LastClaimedAt)

	// Immediately claiming again yields less than the minimum.
	_, err = svc.Claim(ctx, dream.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "claim_too_small", apiErr.Code)
}

func TestYieldSummaryAndClaimAll(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	svc := NewHarvestService(gdb, log, dreamRepo)
	ctx := context.Background()

	seedHarvestDream(t, gdb, dreamRepo, 60, true, 2)
	seedHarvestDream(t, gdb, dreamRepo, 90, false, 1)
	seedHarvestDream(t, gdb, dreamRepo, 10, false, 30) // below threshold, accrues nothing

	// Sub-threshold dreams are left out of the summary entirely.
	summary, err := svc.Yield(ctx, "harvest-wallet")
	require.NoError(t, err)
	require.Len(t, summary.Dreams, 2)
	require.InDelta(t, 0.9*2+0.9*1, summary.TotalPending, 0.05)

	results, err := svc.ClaimAll(ctx, "harvest-wallet")
	require.NoError(t, err)
	require.Len(t, results, 2)
}

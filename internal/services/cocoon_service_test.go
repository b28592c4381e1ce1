package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
	"github.com/dreamnet/dreamnet-backend/internal/webhook"
)

type lifecycleHarness struct {
	db       *gorm.DB
	dreams   DreamService
	cocoons  CocoonService
	tokens   TokenService
	logsRepo repos.CocoonLogRepo
	chains   repos.EvolutionChainRepo
}

func newLifecycleHarness(t *testing.T) *lifecycleHarness {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	cocoonLogRepo := repos.NewCocoonLogRepo(gdb, log)
	chainRepo := repos.NewEvolutionChainRepo(gdb, log)
	tokenRepo := repos.NewDreamTokenRepo(gdb, log)
	notifier := newTestNotifier(t, gdb, log)
	tokens := NewTokenService(gdb, log, tokenRepo, notifier)
	cocoons := NewCocoonService(
		gdb, log,
		dreamRepo, cocoonRepo, cocoonLogRepo, chainRepo,
		tokens, notifier, webhook.NewNotifier(log), nil,
		"http://localhost:8080",
	)
	return &lifecycleHarness{
		db:       gdb,
		dreams:   NewDreamService(gdb, log, dreamRepo, notifier, nil),
		cocoons:  cocoons,
		tokens:   tokens,
		logsRepo: cocoonLogRepo,
		chains:   chainRepo,
	}
}

func (h *lifecycleHarness) approvedDream(t *testing.T, ctx context.Context, score int) *types.Dream {
	t.Helper()
	dream, err := h.dreams.Create(ctx, CreateDreamInput{
		Wallet:      "creator-wallet",
		Title:       "Community Greenhouse Network",
		Description: "Neighborhood greenhouses with shared yields.",
		Tags:        []string{"community"},
		Urgency:     2,
	})
	require.NoError(t, err)
	_, err = h.dreams.SetScore(ctx, dream.ID, score, nil)
	require.NoError(t, err)
	dream, err = h.dreams.UpdateStatus(ctx, dream.ID, types.DreamApproved, "reviewer")
	require.NoError(t, err)
	return dream
}

func TestEvolveDreamEnforcesScoreGate(t *testing.T) {
	h := newLifecycleHarness(t)
	ctx := context.Background()

	dream := h.approvedDream(t, ctx, EvolveScoreThreshold-1)
	_, err := h.cocoons.EvolveDream(ctx, dream.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "score_too_low", apiErr.Code)

	_, err = h.dreams.SetScore(ctx, dream.ID, EvolveScoreThreshold, nil)
	require.NoError(t, err)
	cocoon, err := h.cocoons.EvolveDream(ctx, dream.ID)
	require.NoError(t, err)
	require.Equal(t, types.StageSeedling, cocoon.Stage)

	// The dream is now evolved, so a second evolution conflicts.
	_, err = h.cocoons.EvolveDream(ctx, dream.ID)
	require.ErrorAs(t, err, &apiErr)

	updated, err := h.dreams.Get(ctx, dream.ID)
	require.NoError(t, err)
	require.Equal(t, types.DreamEvolved, updated.DreamStatus)
	require.True(t, updated.Evolved)

	chain, err := h.chains.GetByDreamID(ctx, nil, dream.ID)
	require.NoError(t, err)
	require.NotNil(t, chain.CocoonID)
	require.Equal(t, cocoon.ID, *chain.CocoonID)
	require.Equal(t, "cocoon_seedling", chain.CurrentStage)
}

func TestStageWalkMintsMilestoneTokensAndNFT(t *testing.T) {
	h := newLifecycleHarness(t)
	ctx := context.Background()

	dream := h.approvedDream(t, ctx, 85)
	cocoon, err := h.cocoons.EvolveDream(ctx, dream.ID)
	require.NoError(t, err)

	for _, stage := range []types.CocoonStage{
		types.StageIncubating,
		types.StageActive,
		types.StageMetamorphosis,
		types.StageEmergence,
		types.StageComplete,
	} {
		cocoon, err = h.cocoons.UpdateStage(ctx, cocoon.ID, stage, "admin-wallet", "")
		require.NoError(t, err)
		require.Equal(t, stage, cocoon.Stage)
	}

	reloaded, err := h.cocoons.Get(ctx, cocoon.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Minted)
	require.NotEmpty(t, reloaded.Metadata)

	tokens, err := h.tokens.ListByCocoon(ctx, cocoon.ID)
	require.NoError(t, err)
	byPurpose := map[types.TokenPurpose]int{}
	for _, token := range tokens {
		require.Equal(t, "creator-wallet", token.HolderWallet)
		byPurpose[token.Purpose]++
	}
	require.Equal(t, 1, byPurpose[types.PurposeBadge])
	require.Equal(t, 1, byPurpose[types.PurposeVote])
	require.Equal(t, 2, byPurpose[types.PurposeMint])

	// A second mint attempt loses the guard and changes nothing.
	minted, err := h.cocoons.CheckAndMintNFT(ctx, cocoon.ID)
	require.NoError(t, err)
	require.False(t, minted)

	chain, err := h.chains.GetByDreamID(ctx, nil, dream.ID)
	require.NoError(t, err)
	require.Equal(t, "cocoon_complete", chain.CurrentStage)
	require.NotNil(t, chain.CompletedAt)
}

func TestStageTransitionTableIsClosed(t *testing.T) {
	h := newLifecycleHarness(t)
	ctx := context.Background()

	dream := h.approvedDream(t, ctx, 70)
	cocoon, err := h.cocoons.EvolveDream(ctx, dream.ID)
	require.NoError(t, err)

	var apiErr *apierr.Error

	// Skipping a stage is rejected.
	_, err = h.cocoons.UpdateStage(ctx, cocoon.ID, types.StageActive, "admin-wallet", "")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid_transition", apiErr.Code)

	// Staying put is rejected.
	_, err = h.cocoons.UpdateStage(ctx, cocoon.ID, types.StageSeedling, "admin-wallet", "")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "stage_unchanged", apiErr.Code)

	// An override takes the jump anyway and is audited as such.
	forced, err := h.cocoons.ForceStage(ctx, cocoon.ID, types.StageActive, "admin-wallet", "fast-tracked")
	require.NoError(t, err)
	require.Equal(t, types.StageActive, forced.Stage)

	logs, err := h.logsRepo.GetByCocoonID(ctx, nil, cocoon.ID)
	require.NoError(t, err)
	var override *types.CocoonLog
	for _, entry := range logs {
		if entry.IsOverride {
			override = entry
		}
	}
	require.NotNil(t, override)
	require.Equal(t, types.StageSeedling, override.PreviousStage)
	require.Equal(t, types.StageActive, override.NewStage)
	require.Equal(t, "admin-wallet", override.AdminWallet)
}

func TestNFTMintGateRequiresScoreAndCompletion(t *testing.T) {
	h := newLifecycleHarness(t)
	ctx := context.Background()

	dream := h.approvedDream(t, ctx, MintScoreThreshold-1)
	cocoon, err := h.cocoons.EvolveDream(ctx, dream.ID)
	require.NoError(t, err)

	// Force completion with a sub-threshold score: no mint.
	cocoon, err = h.cocoons.ForceStage(ctx, cocoon.ID, types.StageComplete, "admin-wallet", "")
	require.NoError(t, err)
	reloaded, err := h.cocoons.Get(ctx, cocoon.ID)
	require.NoError(t, err)
	require.False(t, reloaded.Minted)

	// Raise the score and retry: the explicit check now mints.
	_, err = h.cocoons.UpdateScore(ctx, cocoon.ID, MintScoreThreshold)
	require.NoError(t, err)
	minted, err := h.cocoons.CheckAndMintNFT(ctx, cocoon.ID)
	require.NoError(t, err)
	require.True(t, minted)
}

func TestCreateFromDreamRequiresApproval(t *testing.T) {
	h := newLifecycleHarness(t)
	ctx := context.Background()

	dream, err := h.dreams.Create(ctx, CreateDreamInput{
		Wallet: "creator-wallet",
		Title:  "Unreviewed Idea",
	})
	require.NoError(t, err)

	_, err = h.cocoons.CreateFromDream(ctx, dream.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "dream_not_approved", apiErr.Code)
	require.False(t, errors.Is(err, gorm.ErrRecordNotFound))
}

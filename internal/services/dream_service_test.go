package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func newDreamService(t *testing.T) DreamService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	return NewDreamService(gdb, log, dreamRepo, newTestNotifier(t, gdb, log), nil)
}

func TestDreamCreateScoresAtCreation(t *testing.T) {
	svc := newDreamService(t)
	ctx := context.Background()

	dream, err := svc.Create(ctx, CreateDreamInput{
		Wallet:      "creator-wallet",
		Title:       "AI Blockchain Tool",
		Description: "Helps communities coordinate.",
		Urgency:     5,
		Origin:      "flutterbye",
	})
	require.NoError(t, err)
	require.NotNil(t, dream.AIScore)
	// urgency 5 (+20), flutterbye origin (+10), "ai" impact (+10),
	// "blockchain" tech (+3).
	require.Equal(t, 43, *dream.AIScore)
	require.Contains(t, []string(dream.AITags), "impact:ai")
	require.Contains(t, []string(dream.AITags), "tech:blockchain")
	require.Equal(t, types.DreamPending, dream.DreamStatus)
}

func TestDreamCreateRequiresWalletAndTitle(t *testing.T) {
	svc := newDreamService(t)
	_, err := svc.Create(context.Background(), CreateDreamInput{Wallet: "w"})
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "dream_invalid", apiErr.Code)
}

func TestDreamEditBumpsEditCountAndRescores(t *testing.T) {
	svc := newDreamService(t)
	ctx := context.Background()

	dream, err := svc.Create(ctx, CreateDreamInput{
		Wallet: "creator-wallet",
		Title:  "Garden Journal",
	})
	require.NoError(t, err)
	require.Zero(t, dream.EditCount)

	newTitle := "Garden Journal Collective"
	edited, err := svc.Edit(ctx, dream.ID, EditDreamInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, newTitle, edited.Title)
	require.Equal(t, 1, edited.EditCount)
	require.NotNil(t, edited.ScoreBreakdown)
	require.Positive(t, edited.DreamScore)
}

func TestDreamEngagementFeedsTraction(t *testing.T) {
	svc := newDreamService(t)
	ctx := context.Background()

	dream, err := svc.Create(ctx, CreateDreamInput{
		Wallet: "creator-wallet",
		Title:  "Traction Test",
	})
	require.NoError(t, err)

	updated, err := svc.RecordEngagement(ctx, dream.ID, EngagementInput{Views: 50, Likes: 10, Comments: 5})
	require.NoError(t, err)
	require.Equal(t, 50, updated.Views)
	require.Equal(t, 10, updated.Likes)
	require.Equal(t, 5, updated.Comments)

	rescored, err := svc.RecalculateScore(ctx, dream.ID)
	require.NoError(t, err)
	require.NotNil(t, rescored.ScoreBreakdown)
	require.Equal(t, 15, rescored.ScoreBreakdown.Data().Traction)
}

func TestDreamSetScoreClampsAndPersists(t *testing.T) {
	svc := newDreamService(t)
	ctx := context.Background()

	dream, err := svc.Create(ctx, CreateDreamInput{Wallet: "w", Title: "Score Target"})
	require.NoError(t, err)

	updated, err := svc.SetScore(ctx, dream.ID, 85, nil)
	require.NoError(t, err)
	require.Equal(t, 85, updated.DreamScore)

	_, err = svc.SetScore(ctx, uuid.New(), 85, nil)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "dream_not_found", apiErr.Code)
}

func TestDreamDelete(t *testing.T) {
	svc := newDreamService(t)
	ctx := context.Background()

	dream, err := svc.Create(ctx, CreateDreamInput{Wallet: "w", Title: "Ephemeral"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, dream.ID))

	_, err = svc.Get(ctx, dream.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "dream_not_found", apiErr.Code)
}

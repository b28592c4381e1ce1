package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func TestContributorAddIsIdempotentPerWallet(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	logRepo := repos.NewContributorsLogRepo(gdb, log)
	svc := NewContributorService(gdb, log, cocoonRepo, logRepo, newTestNotifier(t, gdb, log))
	ctx := context.Background()

	cocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID:       uuid.New(),
		Title:         "Shared Garden",
		Description:   "A cocoon with contributors",
		CreatorWallet: "creator-wallet",
	})
	require.NoError(t, err)

	added, err := svc.Add(ctx, cocoon.ID, "friend-wallet", types.RoleCoder, "creator-wallet")
	require.NoError(t, err)
	require.True(t, added)

	// Same wallet again, even with a different role, is rejected without error.
	added, err = svc.Add(ctx, cocoon.ID, "friend-wallet", types.RoleArtist, "creator-wallet")
	require.NoError(t, err)
	require.False(t, added)

	contributors, err := svc.List(ctx, cocoon.ID)
	require.NoError(t, err)
	require.Len(t, contributors, 1)
	require.Equal(t, types.RoleCoder, contributors[0].Role)

	history, err := svc.History(ctx, cocoon.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, types.ContributorAdded, history[0].ActionType)
}

func TestContributorAddRejectsInvalidRoleAndMissingCocoon(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	logRepo := repos.NewContributorsLogRepo(gdb, log)
	svc := NewContributorService(gdb, log, cocoonRepo, logRepo, newTestNotifier(t, gdb, log))
	ctx := context.Background()

	cocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID:       uuid.New(),
		Title:         "Role Checks",
		Description:   "x",
		CreatorWallet: "creator-wallet",
	})
	require.NoError(t, err)

	added, err := svc.Add(ctx, cocoon.ID, "friend-wallet", types.ContributorRole("wizard"), "creator-wallet")
	require.NoError(t, err)
	require.False(t, added)

	added, err = svc.Add(ctx, uuid.New(), "friend-wallet", types.RoleCoder, "creator-wallet")
	require.NoError(t, err)
	require.False(t, added)
}

func TestContributorRemove(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	logRepo := repos.NewContributorsLogRepo(gdb, log)
	svc := NewContributorService(gdb, log, cocoonRepo, logRepo, newTestNotifier(t, gdb, log))
	ctx := context.Background()

	cocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID:       uuid.New(),
		Title:         "Removal",
		Description:   "x",
		CreatorWallet: "creator-wallet",
	})
	require.NoError(t, err)

	added, err := svc.Add(ctx, cocoon.ID, "friend-wallet", types.RoleVisionary, "creator-wallet")
	require.NoError(t, err)
	require.True(t, added)

	removed, err := svc.Remove(ctx, cocoon.ID, "friend-wallet", "creator-wallet")
	require.NoError(t, err)
	require.True(t, removed)

	contributors, err := svc.List(ctx, cocoon.ID)
	require.NoError(t, err)
	require.Empty(t, contributors)

	// Removing an absent wallet is a no-op.
	removed, err = svc.Remove(ctx, cocoon.ID, "friend-wallet", "creator-wallet")
	require.NoError(t, err)
	require.False(t, removed)
}

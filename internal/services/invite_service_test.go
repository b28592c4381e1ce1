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

type inviteHarness struct {
	invites InviteService
	dreams  repos.DreamRepo
	cocoons repos.CocoonRepo
	members ContributorService
}

func newInviteHarness(t *testing.T) *inviteHarness {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	inviteRepo := repos.NewDreamInviteRepo(gdb, log)
	logRepo := repos.NewContributorsLogRepo(gdb, log)
	notifier := newTestNotifier(t, gdb, log)
	contributors := NewContributorService(gdb, log, cocoonRepo, logRepo, notifier)
	return &inviteHarness{
		invites: NewInviteService(gdb, log, inviteRepo, dreamRepo, cocoonRepo, contributors, notifier),
		dreams:  dreamRepo,
		cocoons: cocoonRepo,
		members: contributors,
	}
}

func TestInviteCreateValidation(t *testing.T) {
	h := newInviteHarness(t)
	ctx := context.Background()

	dream, err := h.dreams.Create(ctx, nil, &types.Dream{Wallet: "owner", Title: "Open Project"})
	require.NoError(t, err)

	var apiErr *apierr.Error

	_, err = h.invites.Create(ctx, CreateInviteInput{
		DreamID: dream.ID, InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.ContributorRole("overlord"),
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid_role", apiErr.Code)

	_, err = h.invites.Create(ctx, CreateInviteInput{
		DreamID: uuid.New(), InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.RoleCoder,
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "dream_not_found", apiErr.Code)

	invite, err := h.invites.Create(ctx, CreateInviteInput{
		DreamID: dream.ID, InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.RoleCoder, Message: "join us",
	})
	require.NoError(t, err)
	require.Equal(t, types.InvitePending, invite.Status)

	// A second pending invite for the same dream and wallet is rejected.
	_, err = h.invites.Create(ctx, CreateInviteInput{
		DreamID: dream.ID, InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.RoleArtist,
	})
	require.ErrorAs(t, err, &apiErr)

	pending, err := h.invites.ListPending(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestInviteAcceptanceJoinsCocoon(t *testing.T) {
	h := newInviteHarness(t)
	ctx := context.Background()

	dream, err := h.dreams.Create(ctx, nil, &types.Dream{Wallet: "owner", Title: "Shared Build"})
	require.NoError(t, err)
	cocoon, err := h.cocoons.Create(ctx, nil, &types.Cocoon{
		DreamID: dream.ID, Title: dream.Title, Description: "x", CreatorWallet: "owner",
	})
	require.NoError(t, err)

	invite, err := h.invites.Create(ctx, CreateInviteInput{
		DreamID: dream.ID, InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.RolePromoter,
	})
	require.NoError(t, err)

	responded, err := h.invites.Respond(ctx, invite.ID, true)
	require.NoError(t, err)
	require.Equal(t, types.InviteAccepted, responded.Status)

	members, err := h.members.List(ctx, cocoon.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "guest", members[0].Wallet)
	require.Equal(t, types.RolePromoter, members[0].Role)

	// Responding twice conflicts.
	_, err = h.invites.Respond(ctx, invite.ID, false)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invite_already_responded", apiErr.Code)
}

func TestInviteRejectionLeavesCocoonAlone(t *testing.T) {
	h := newInviteHarness(t)
	ctx := context.Background()

	dream, err := h.dreams.Create(ctx, nil, &types.Dream{Wallet: "owner", Title: "Quiet Project"})
	require.NoError(t, err)
	cocoon, err := h.cocoons.Create(ctx, nil, &types.Cocoon{
		DreamID: dream.ID, Title: dream.Title, Description: "x", CreatorWallet: "owner",
	})
	require.NoError(t, err)

	invite, err := h.invites.Create(ctx, CreateInviteInput{
		DreamID: dream.ID, InvitedWallet: "guest", InviterWallet: "owner",
		Role: types.RoleBuilder,
	})
	require.NoError(t, err)

	responded, err := h.invites.Respond(ctx, invite.ID, false)
	require.NoError(t, err)
	require.Equal(t, types.InviteRejected, responded.Status)

	pending, err := h.invites.ListPending(ctx, "guest")
	require.NoError(t, err)
	require.Empty(t, pending)

	members, err := h.members.List(ctx, cocoon.ID)
	require.NoError(t, err)
	require.Empty(t, members)
}

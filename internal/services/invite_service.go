package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type CreateInviteInput struct {
	DreamID       uuid.UUID             `json:"dream_id" binding:"required"`
	InvitedWallet string                `json:"invited_wallet" binding:"required"`
	InviterWallet string                `json:"inviter_wallet" binding:"required"`
	Role          types.ContributorRole `json:"role" binding:"required"`
	Message       string                `json:"message"`
}

type InviteService interface {
	Create(ctx context.Context, input CreateInviteInput) (*types.DreamInvite, error)
	ListPending(ctx context.Context, wallet string) ([]*types.DreamInvite, error)
	// Respond accepts or rejects a pending invite. Acceptance adds the
	// invitee as a contributor on the dream's cocoon when one exists.
	Respond(ctx context.Context, inviteID uuid.UUID, accept bool) (*types.DreamInvite, error)
}

type inviteService struct {
	db           *gorm.DB
	log          *logger.Logger
	inviteRepo   repos.DreamInviteRepo
	dreamRepo    repos.DreamRepo
	cocoonRepo   repos.CocoonRepo
	contributors ContributorService
	notifier     NotifierService
}

func NewInviteService(
	db *gorm.DB,
	log *logger.Logger,
	inviteRepo repos.DreamInviteRepo,
	dreamRepo repos.DreamRepo,
	cocoonRepo repos.CocoonRepo,
	contributors ContributorService,
	notifier NotifierService,
) InviteService {
	serviceLog := log.With("service", "InviteService")
	return &inviteService{
		db:           db,
		log:          serviceLog,
		inviteRepo:   inviteRepo,
		dreamRepo:    dreamRepo,
		cocoonRepo:   cocoonRepo,
		contributors: contributors,
		notifier:     notifier,
	}
}

func (is *inviteService) Create(ctx context.Context, input CreateInviteInput) (*types.DreamInvite, error) {
	if !types.IsValidContributorRole(input.Role) {
		return nil, apierr.BadRequest("invalid_role", fmt.Errorf("unknown contributor role %q", input.Role))
	}

	dream, err := is.dreamRepo.GetByID(ctx, nil, input.DreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("dream_not_found", err)
		}
		return nil, err
	}

	if _, err := is.inviteRepo.GetPendingForDreamAndWallet(ctx, nil, input.DreamID, input.InvitedWallet); err == nil {
		return nil, apierr.Conflict("invite_exists", fmt.Errorf("wallet %s already has a pending invite", input.InvitedWallet))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invite := &types.DreamInvite{
		DreamID:       input.DreamID,
		InvitedWallet: input.InvitedWallet,
		InviterWallet: input.InviterWallet,
		Role:          input.Role,
		Message:       input.Message,
	}
	if _, err := is.inviteRepo.Create(ctx, nil, invite); err != nil {
		return nil, err
	}

	is.log.Info("Invite created", "inviteID", invite.ID, "dreamID", input.DreamID, "invited", input.InvitedWallet)
	is.notifier.ContributorInvited(ctx, invite, dream.Title)
	return invite, nil
}

func (is *inviteService) ListPending(ctx context.Context, wallet string) ([]*types.DreamInvite, error) {
	return is.inviteRepo.GetPendingForWallet(ctx, nil, wallet)
}

func (is *inviteService) Respond(ctx context.Context, inviteID uuid.UUID, accept bool) (*types.DreamInvite, error) {
	invite, err := is.inviteRepo.GetByID(ctx, nil, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("invite_not_found", err)
		}
		return nil, err
	}
	if invite.Status != types.InvitePending {
		return nil, apierr.Conflict("invite_already_responded", fmt.Errorf("invite %s is %s", inviteID, invite.Status))
	}

	status := types.InviteAccepted
	if !accept {
		status = types.InviteRejected
	}
	if err := is.inviteRepo.MarkResponded(ctx, nil, inviteID, status); err != nil {
		return nil, err
	}
	invite.Status = status

	dreamTitle := ""
	if dream, err := is.dreamRepo.GetByID(ctx, nil, invite.DreamID); err == nil {
		dreamTitle = dream.Title
	}

	if accept {
		if cocoon, err := is.cocoonRepo.GetByDreamID(ctx, nil, invite.DreamID); err == nil {
			added, err := is.contributors.Add(ctx, cocoon.ID, invite.InvitedWallet, invite.Role, invite.InviterWallet)
			if err != nil {
				is.log.Warn("Failed to add contributor from accepted invite", "inviteID", inviteID, "error", err)
			} else if !added {
				is.log.Warn("Accepted invite but contributor was rejected", "inviteID", inviteID, "wallet", invite.InvitedWallet)
			}
		}
	}

	is.log.Info("Invite responded", "inviteID", inviteID, "status", status)
	is.notifier.InviteResponded(ctx, invite, dreamTitle, accept)
	return invite, nil
}

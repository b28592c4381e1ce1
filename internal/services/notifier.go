package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/realtime"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct{ Bus Bus }

type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}

// NotifierService persists a notification row and pushes it over SSE. Every
// method is best-effort: failures are logged and swallowed so fan-out never
// fails the mutation that triggered it.
type NotifierService interface {
	Notify(ctx context.Context, wallet string, kind types.NotificationType, title, message string, data map[string]any)

	DreamApproved(ctx context.Context, dream *types.Dream)
	DreamScoreUpdated(ctx context.Context, dream *types.Dream)
	CocoonCreated(ctx context.Context, cocoon *types.Cocoon)
	CocoonStageUpdated(ctx context.Context, cocoon *types.Cocoon, previous types.CocoonStage)
	CocoonArchived(ctx context.Context, cocoon *types.Cocoon)
	ContributorAdded(ctx context.Context, cocoon *types.Cocoon, contributor types.Contributor)
	ContributorRemoved(ctx context.Context, cocoon *types.Cocoon, wallet string)
	ContributorInvited(ctx context.Context, invite *types.DreamInvite, dreamTitle string)
	InviteResponded(ctx context.Context, invite *types.DreamInvite, dreamTitle string, accepted bool)
	TokenMinted(ctx context.Context, token *types.DreamToken)
	NFTMinted(ctx context.Context, cocoon *types.Cocoon, metadata map[string]any)
	ScoreInsufficient(ctx context.Context, cocoon *types.Cocoon)
}

type notifierService struct {
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	emit             SSEEmitter
}

func NewNotifierService(log *logger.Logger, notificationRepo repos.NotificationRepo, emit SSEEmitter) NotifierService {
	return &notifierService{
		log:              log.With("service", "NotifierService"),
		notificationRepo: notificationRepo,
		emit:             emit,
	}
}

func (ns *notifierService) Notify(ctx context.Context, wallet string, kind types.NotificationType, title, message string, data map[string]any) {
	if wallet == "" {
		return
	}

	notification := &types.Notification{
		RecipientWallet: wallet,
		Type:            kind,
		Title:           title,
		Message:         message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			ns.log.Warn("Failed to marshal notification data", "type", kind, "error", err)
		} else {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if _, err := ns.notificationRepo.Create(ctx, nil, notification); err != nil {
		ns.log.Warn("Failed to persist notification", "type", kind, "wallet", wallet, "error", err)
		return
	}

	if ns.emit != nil {
		ns.emit.Emit(ctx, realtime.SSEMessage{
			Channel: wallet,
			Event:   realtime.SSEEventNotification,
			Data:    notification,
		})
	}
}

func (ns *notifierService) DreamApproved(ctx context.Context, dream *types.Dream) {
	ns.Notify(ctx, dream.Wallet, types.NotifyDreamApproved,
		"Dream Approved",
		fmt.Sprintf("Your dream %q has been approved and can now evolve.", dream.Title),
		map[string]any{"dream_id": dream.ID})
}

func (ns *notifierService) DreamScoreUpdated(ctx context.Context, dream *types.Dream) {
	ns.Notify(ctx, dream.Wallet, types.NotifyDreamScoreUpdated,
		"Dream Score Updated",
		fmt.Sprintf("Your dream %q now has a score of %d/100.", dream.Title, dream.DreamScore),
		map[string]any{"dream_id": dream.ID, "dream_score": dream.DreamScore})
}

func (ns *notifierService) CocoonCreated(ctx context.Context, cocoon *types.Cocoon) {
	ns.Notify(ctx, cocoon.CreatorWallet, types.NotifyCocoonCreated,
		"Cocoon Created",
		fmt.Sprintf("Your dream %q has evolved into a cocoon.", cocoon.Title),
		map[string]any{"cocoon_id": cocoon.ID, "dream_id": cocoon.DreamID})
}

func (ns *notifierService) CocoonStageUpdated(ctx context.Context, cocoon *types.Cocoon, previous types.CocoonStage) {
	ns.Notify(ctx, cocoon.CreatorWallet, types.NotifyCocoonStageUpdated,
		"Cocoon Stage Updated",
		fmt.Sprintf("Cocoon %q moved from %s to %s.", cocoon.Title, previous, cocoon.Stage),
		map[string]any{"cocoon_id": cocoon.ID, "previous_stage": previous, "new_stage": cocoon.Stage})
}

func (ns *notifierService) CocoonArchived(ctx context.Context, cocoon *types.Cocoon) {
	ns.Notify(ctx, cocoon.CreatorWallet, types.NotifyCocoonArchived,
		"Cocoon Archived",
		fmt.Sprintf("Cocoon %q was archived after a period of inactivity.", cocoon.Title),
		map[string]any{"cocoon_id": cocoon.ID})
}

func (ns *notifierService) ContributorAdded(ctx context.Context, cocoon *types.Cocoon, contributor types.Contributor) {
	ns.Notify(ctx, contributor.Wallet, types.NotifyContributorAdded,
		"Added as Contributor",
		fmt.Sprintf("You joined cocoon %q as %s.", cocoon.Title, contributor.Role),
		map[string]any{"cocoon_id": cocoon.ID, "role": contributor.Role})
}

func (ns *notifierService) ContributorRemoved(ctx context.Context, cocoon *types.Cocoon, wallet string) {
	ns.Notify(ctx, wallet, types.NotifyContributorRemoved,
		"Removed from Cocoon",
		fmt.Sprintf("You were removed from cocoon %q.", cocoon.Title),
		map[string]any{"cocoon_id": cocoon.ID})
}

func (ns *notifierService) ContributorInvited(ctx context.Context, invite *types.DreamInvite, dreamTitle string) {
	ns.Notify(ctx, invite.InvitedWallet, types.NotifyContributorInvited,
		"Contribution Invite",
		fmt.Sprintf("%s invited you to join dream %q as %s.", invite.InviterWallet, dreamTitle, invite.Role),
		map[string]any{"invite_id": invite.ID, "dream_id": invite.DreamID, "role": invite.Role})
}

func (ns *notifierService) InviteResponded(ctx context.Context, invite *types.DreamInvite, dreamTitle string, accepted bool) {
	kind := types.NotifyInviteAccepted
	verb := "accepted"
	if !accepted {
		kind = types.NotifyInviteRejected
		verb = "declined"
	}
	ns.Notify(ctx, invite.InviterWallet, kind,
		"Invite Response",
		fmt.Sprintf("%s %s your invite to dream %q.", invite.InvitedWallet, verb, dreamTitle),
		map[string]any{"invite_id": invite.ID, "dream_id": invite.DreamID})
}

func (ns *notifierService) TokenMinted(ctx context.Context, token *types.DreamToken) {
	ns.Notify(ctx, token.HolderWallet, types.NotifyTokenMinted,
		"Token Minted",
		fmt.Sprintf("You received a %s token for milestone %q.", token.Purpose, token.Milestone),
		map[string]any{"token_id": token.ID, "purpose": token.Purpose, "milestone": token.Milestone})
}

func (ns *notifierService) NFTMinted(ctx context.Context, cocoon *types.Cocoon, metadata map[string]any) {
	ns.Notify(ctx, cocoon.CreatorWallet, types.NotifyNFTMinted,
		"NFT Minted",
		fmt.Sprintf("Cocoon %q completed its journey and an NFT was minted.", cocoon.Title),
		metadata)
}

func (ns *notifierService) ScoreInsufficient(ctx context.Context, cocoon *types.Cocoon) {
	ns.Notify(ctx, cocoon.CreatorWallet, types.NotifyCocoonScoreInsufficient,
		"Score Too Low to Mint",
		fmt.Sprintf("Cocoon %q completed but its score %d/100 is below the minting threshold of 80.", cocoon.Title, cocoon.DreamScore),
		map[string]any{"cocoon_id": cocoon.ID, "dream_score": cocoon.DreamScore})
}

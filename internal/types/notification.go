package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyDreamApproved          NotificationType = "dream_approved"
	NotifyCocoonCreated          NotificationType = "cocoon_created"
	NotifyCocoonStageUpdated     NotificationType = "cocoon_stage_updated"
	NotifyContributorAdded       NotificationType = "contributor_added"
	NotifyContributorRemoved     NotificationType = "contributor_removed"
	NotifyContributorInvited     NotificationType = "contributor_invited"
	NotifyInviteAccepted         NotificationType = "invite_accepted"
	NotifyInviteRejected         NotificationType = "invite_rejected"
	NotifyDreamScoreUpdated      NotificationType = "dream_score_updated"
	NotifyCocoonScoreInsufficient NotificationType = "cocoon_score_insufficient"
	NotifyTokenMinted            NotificationType = "token_minted"
	NotifyNFTMinted              NotificationType = "nft_minted"
	NotifyCocoonArchived         NotificationType = "cocoon_archived"
)

type Notification struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientWallet string           `gorm:"column:recipient_wallet;not null;index" json:"recipient_wallet"`
	Type            NotificationType `gorm:"column:type;not null" json:"type"`
	Title           string           `gorm:"column:title;not null" json:"title"`
	Message         string           `gorm:"column:message;not null" json:"message"`
	Data            datatypes.JSON   `gorm:"column:data" json:"data,omitempty"`
	IsRead          bool             `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt       time.Time        `gorm:"not null;index" json:"created_at"`
	ReadAt          *time.Time       `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return nil
}

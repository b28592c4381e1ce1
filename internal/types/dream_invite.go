package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRejected InviteStatus = "rejected"
)

type DreamInvite struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DreamID       uuid.UUID       `gorm:"type:uuid;column:dream_id;not null;index" json:"dream_id"`
	InvitedWallet string          `gorm:"column:invited_wallet;not null;index" json:"invited_wallet"`
	InviterWallet string          `gorm:"column:inviter_wallet;not null" json:"inviter_wallet"`
	Role          ContributorRole `gorm:"column:role;not null" json:"role"`
	Status        InviteStatus    `gorm:"column:status;not null;default:pending" json:"status"`
	Message       string          `gorm:"column:message" json:"message,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	RespondedAt   *time.Time      `gorm:"column:responded_at" json:"responded_at,omitempty"`
}

func (DreamInvite) TableName() string { return "dream_invites" }

func (i *DreamInvite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.Status == "" {
		i.Status = InvitePending
	}
	return nil
}

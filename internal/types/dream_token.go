package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TokenPurpose string

const (
	PurposeBadge TokenPurpose = "badge"
	PurposeMint  TokenPurpose = "mint"
	PurposeVote  TokenPurpose = "vote"
)

func IsValidTokenPurpose(purpose TokenPurpose) bool {
	switch purpose {
	case PurposeBadge, PurposeMint, PurposeVote:
		return true
	}
	return false
}

// DreamToken rows are an append-only log; nothing enforces uniqueness.
type DreamToken struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DreamID      uuid.UUID      `gorm:"type:uuid;column:dream_id;not null;index" json:"dream_id"`
	CocoonID     *uuid.UUID     `gorm:"type:uuid;column:cocoon_id;index" json:"cocoon_id,omitempty"`
	HolderWallet string         `gorm:"column:holder_wallet;not null;index" json:"holder_wallet"`
	Purpose      TokenPurpose   `gorm:"column:purpose;not null" json:"purpose"`
	Milestone    string         `gorm:"column:milestone" json:"milestone,omitempty"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	MintedAt     time.Time      `gorm:"column:minted_at;not null;index" json:"minted_at"`
}

func (DreamToken) TableName() string { return "dream_tokens" }

func (t *DreamToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.MintedAt.IsZero() {
		t.MintedAt = time.Now().UTC()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContributorsLog struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CocoonID      uuid.UUID         `gorm:"type:uuid;column:cocoon_id;not null;index" json:"cocoon_id"`
	WalletAddress string            `gorm:"column:wallet_address;not null" json:"wallet_address"`
	Role          ContributorRole   `gorm:"column:role;not null" json:"role"`
	ActionType    ContributorAction `gorm:"column:action_type;not null" json:"action_type"`
	PerformedBy   string            `gorm:"column:performed_by;not null" json:"performed_by"`
	Timestamp     time.Time         `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (ContributorsLog) TableName() string { return "contributors_log" }

func (l *ContributorsLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CocoonLog is the append-only audit row written for every stage transition.
type CocoonLog struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CocoonID      uuid.UUID   `gorm:"type:uuid;column:cocoon_id;not null;index" json:"cocoon_id"`
	PreviousStage CocoonStage `gorm:"column:previous_stage" json:"previous_stage,omitempty"`
	NewStage      CocoonStage `gorm:"column:new_stage;not null" json:"new_stage"`
	AdminWallet   string      `gorm:"column:admin_wallet;not null" json:"admin_wallet"`
	IsOverride    bool        `gorm:"column:is_override;not null;default:false" json:"is_override"`
	Notes         string      `gorm:"column:notes" json:"notes,omitempty"`
	Timestamp     time.Time   `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (CocoonLog) TableName() string { return "cocoon_logs" }

func (l *CocoonLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wallet struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	DreamScore    int       `gorm:"column:dream_score;not null;default:0" json:"dream_score"`
	CocoonTokens  int       `gorm:"column:cocoon_tokens;not null;default:0" json:"cocoon_tokens"`
	CoreFragments int       `gorm:"column:core_fragments;not null;default:0" json:"core_fragments"`
	TotalValue    float64   `gorm:"column:total_value;not null;default:0" json:"total_value"`
	LastUpdated   time.Time `gorm:"column:last_updated;not null;index" json:"last_updated"`
}

func (Wallet) TableName() string { return "wallets" }

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.LastUpdated.IsZero() {
		w.LastUpdated = time.Now().UTC()
	}
	return nil
}

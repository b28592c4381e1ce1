package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Cocoon struct {
	ID            uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	DreamID       uuid.UUID                        `gorm:"type:uuid;column:dream_id;not null;uniqueIndex" json:"dream_id"`
	Title         string                           `gorm:"column:title;not null" json:"title"`
	Description   string                           `gorm:"column:description;not null" json:"description"`
	CreatorWallet string                           `gorm:"column:creator_wallet;not null;index" json:"creator_wallet"`
	Stage         CocoonStage                      `gorm:"column:stage;not null;default:seedling;index" json:"stage"`
	Tags          datatypes.JSONSlice[string]      `gorm:"column:tags" json:"tags"`
	DreamScore    int                              `gorm:"column:dream_score;not null;default:0" json:"dream_score"`
	EvolutionNotes datatypes.JSONSlice[string]     `gorm:"column:evolution_notes" json:"evolution_notes"`
	Metadata      datatypes.JSON                   `gorm:"column:metadata" json:"metadata,omitempty"`
	Contributors  datatypes.JSONSlice[Contributor] `gorm:"column:contributors" json:"contributors"`
	Minted        bool                             `gorm:"column:minted;not null;default:false" json:"minted"`
	CreatedAt     time.Time                        `gorm:"not null;index" json:"created_at"`
	LastUpdated   time.Time                        `gorm:"column:last_updated;not null;index" json:"last_updated"`
}

func (Cocoon) TableName() string { return "cocoons" }

func (c *Cocoon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.LastUpdated.IsZero() {
		c.LastUpdated = now
	}
	if c.Stage == "" {
		c.Stage = StageSeedling
	}
	return nil
}

func (c *Cocoon) HasContributor(wallet string) (Contributor, bool) {
	for _, contributor := range c.Contributors {
		if contributor.Wallet == wallet {
			return contributor, true
		}
	}
	return Contributor{}, false
}

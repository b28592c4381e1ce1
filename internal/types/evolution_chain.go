package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvolutionChain is the 1:1 shadow record per dream tracking cumulative stage
// history metadata. CurrentStage is "dream" until the dream evolves, then the
// cocoon_<stage> names from ChainStageName.
type EvolutionChain struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DreamID      uuid.UUID      `gorm:"type:uuid;column:dream_id;not null;uniqueIndex" json:"dream_id"`
	CocoonID     *uuid.UUID     `gorm:"type:uuid;column:cocoon_id" json:"cocoon_id,omitempty"`
	CurrentStage string         `gorm:"column:current_stage;not null" json:"current_stage"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	EvolvedAt    *time.Time     `gorm:"column:evolved_at" json:"evolved_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	LastUpdated  time.Time      `gorm:"column:last_updated;not null;index" json:"last_updated"`
}

func (EvolutionChain) TableName() string { return "evolution_chains" }

func (c *EvolutionChain) BeforeCreate(tx *gorm.DB) error {
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
	if c.CurrentStage == "" {
		c.CurrentStage = "dream"
	}
	return nil
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DreamCore struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Type      string    `gorm:"column:type;not null" json:"type"`
	Energy    int       `gorm:"column:energy;not null;default:100" json:"energy"`
	Resonance int       `gorm:"column:resonance;not null;default:50" json:"resonance"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	OwnerID   string    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DreamCore) TableName() string { return "dream_cores" }

func (c *DreamCore) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

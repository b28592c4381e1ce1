package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DreamStatus string

const (
	DreamPending  DreamStatus = "pending"
	DreamApproved DreamStatus = "approved"
	DreamRejected DreamStatus = "rejected"
	DreamEvolved  DreamStatus = "evolved"
)

func IsValidDreamStatus(status DreamStatus) bool {
	switch status {
	case DreamPending, DreamApproved, DreamRejected, DreamEvolved:
		return true
	}
	return false
}

// ScoreBreakdown holds the four dream-score components, each in [0,25].
type ScoreBreakdown struct {
	Originality   int `json:"originality"`
	Traction      int `json:"traction"`
	Collaboration int `json:"collaboration"`
	Updates       int `json:"updates"`
}

type Dream struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	Wallet      string                           `gorm:"column:wallet;not null;index" json:"wallet"`
	Title       string                           `gorm:"column:title;not null" json:"title"`
	Description string                           `gorm:"column:description" json:"description"`
	Tags        datatypes.JSONSlice[string]      `gorm:"column:tags" json:"tags"`
	Urgency     int                              `gorm:"column:urgency;default:1" json:"urgency"`
	Origin      string                           `gorm:"column:origin" json:"origin"`
	DreamStatus DreamStatus                      `gorm:"column:dream_status;not null;default:pending;index" json:"dream_status"`

	AIScore        *int                           `gorm:"column:ai_score" json:"ai_score,omitempty"`
	AITags         datatypes.JSONSlice[string]    `gorm:"column:ai_tags" json:"ai_tags"`
	DreamScore     int                            `gorm:"column:dream_score;not null;default:0" json:"dream_score"`
	ScoreBreakdown *datatypes.JSONType[ScoreBreakdown] `gorm:"column:score_breakdown" json:"score_breakdown,omitempty"`

	Views           int                              `gorm:"column:views;not null;default:0" json:"views"`
	Likes           int                              `gorm:"column:likes;not null;default:0" json:"likes"`
	Comments        int                              `gorm:"column:comments;not null;default:0" json:"comments"`
	Contributors    datatypes.JSONSlice[Contributor] `gorm:"column:contributors" json:"contributors"`
	EditCount       int                              `gorm:"column:edit_count;not null;default:0" json:"edit_count"`
	UniquenessScore *int                             `gorm:"column:uniqueness_score" json:"uniqueness_score,omitempty"`

	Evolved bool `gorm:"column:evolved;not null;default:false" json:"evolved"`

	// Harvest-yield bookkeeping, derived from the row itself rather than a
	// shadow copy of the dream.
	LastClaimedAt *time.Time `gorm:"column:last_claimed_at" json:"last_claimed_at,omitempty"`
	TotalEarned   float64    `gorm:"column:total_earned;not null;default:0" json:"total_earned"`

	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	LastUpdated time.Time  `gorm:"column:last_updated;not null;index" json:"last_updated"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewerID  string     `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
}

func (Dream) TableName() string { return "dreams" }

func (d *Dream) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.LastUpdated.IsZero() {
		d.LastUpdated = now
	}
	if d.DreamStatus == "" {
		d.DreamStatus = DreamPending
	}
	return nil
}

// HasContributor reports whether wallet already holds any role on the dream.
func (d *Dream) HasContributor(wallet string) bool {
	for _, c := range d.Contributors {
		if c.Wallet == wallet {
			return true
		}
	}
	return false
}

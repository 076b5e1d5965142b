package model

import (
	"time"

	"github.com/google/uuid"
)

// Panel is a persisted composed panel for an item. Slots and AllScored keep
// the engine output as JSON documents so the ranking can be revisited for
// replacement suggestions without re-scoring.
type Panel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ItemID       uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	Slots        string    `gorm:"type:jsonb" json:"slots"`
	AllScored    string    `gorm:"type:jsonb" json:"all_scored"`
	Target       string    `gorm:"type:jsonb" json:"target_composition"`
	Size         int       `json:"size"`
	AverageScore float64   `gorm:"type:float" json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Panel) TableName() string {
	return "panels"
}

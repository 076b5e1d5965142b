package model

import (
	"time"

	"github.com/google/uuid"
)

// MatchRun records one batch scoring or panel generation request. Scores are
// persisted here by the usecase once the engine returns; the engine itself is
// stateless.
type MatchRun struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ItemID      uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	Status      string    `gorm:"type:varchar(50)" json:"status"` // "processing", "completed", "failed"
	UseSemantic bool      `json:"use_semantic"`
	Results     string    `gorm:"type:jsonb" json:"results"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *MatchRun) TableName() string {
	return "match_runs"
}

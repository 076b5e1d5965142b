package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/pgvector/pgvector-go"
)

// Candidate is an applicant for a specific item.
type Candidate struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string          `json:"name"`
	Skills         []string        `gorm:"serializer:json;type:jsonb" json:"skills"`
	Qualifications []string        `gorm:"serializer:json;type:jsonb" json:"qualifications"`
	GateScore      string          `gorm:"type:varchar(20)" json:"gate_score"`
	GatePaper      string          `gorm:"type:varchar(20)" json:"gate_paper"`
	Experience     string          `gorm:"type:text" json:"experience"`
	Education      string          `gorm:"type:text" json:"education"`
	AppliedItemID  uuid.UUID       `gorm:"type:uuid;index" json:"applied_item_id"`
	Embedding      pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// ToProfile maps the stored record onto the matching engine's candidate
// profile.
func (c *Candidate) ToProfile() matching.Candidate {
	return matching.Candidate{
		ID:             c.ID.String(),
		Name:           c.Name,
		Skills:         c.Skills,
		Qualifications: c.Qualifications,
		GateScore:      c.GateScore,
		GatePaper:      c.GatePaper,
		Experience:     c.Experience,
		Education:      c.Education,
		Embedding:      c.Embedding.Slice(),
	}
}

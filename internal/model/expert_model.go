package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/pgvector/pgvector-go"
)

// Expert is an evaluator profile available for panel selection.
type Expert struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string          `json:"name"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`
	Role            string          `json:"role"`
	Skills          []string        `gorm:"serializer:json;type:jsonb" json:"skills"`
	Qualifications  []string        `gorm:"serializer:json;type:jsonb" json:"qualifications"`
	Specializations []string        `gorm:"serializer:json;type:jsonb" json:"specializations"`
	Affiliation     string          `json:"affiliation"`
	Category        string          `gorm:"type:varchar(30)" json:"category"`
	Description     string          `gorm:"type:text" json:"description"`
	Embedding       pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (e *Expert) TableName() string {
	return "experts"
}

// ToProfile maps the stored record onto the matching engine's expert profile.
// The category passes through as-is; the engine validates it against its
// closed set.
func (e *Expert) ToProfile() matching.Expert {
	return matching.Expert{
		ID:              e.ID.String(),
		Name:            e.Name,
		Role:            e.Role,
		Skills:          e.Skills,
		Qualifications:  e.Qualifications,
		Specializations: e.Specializations,
		Affiliation:     e.Affiliation,
		Category:        matching.Category(e.Category),
		Description:     e.Description,
		Embedding:       e.Embedding.Slice(),
	}
}

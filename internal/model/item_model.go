package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/pgvector/pgvector-go"
)

// Item is a job opening extracted from a recruitment advertisement.
type Item struct {
	ID                     uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ItemNo                 string          `gorm:"type:varchar(50)" json:"item_no"`
	Discipline             string          `json:"discipline"`
	Title                  string          `json:"title"`
	EssentialQualification string          `gorm:"type:text" json:"essential_qualification"`
	Description            string          `gorm:"type:text" json:"description"`
	GateCode               string          `gorm:"type:varchar(20)" json:"gate_code"`
	EquivalentDegrees      []string        `gorm:"serializer:json;type:jsonb" json:"equivalent_degrees"`
	Organization           string          `json:"organization"`
	Embedding              pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (i *Item) TableName() string {
	return "items"
}

// ToProfile maps the stored record onto the matching engine's item profile.
func (i *Item) ToProfile() matching.Item {
	return matching.Item{
		ID:                     i.ID.String(),
		ItemNo:                 i.ItemNo,
		Discipline:             i.Discipline,
		Title:                  i.Title,
		EssentialQualification: i.EssentialQualification,
		Description:            i.Description,
		GateCode:               i.GateCode,
		EquivalentDegrees:      i.EquivalentDegrees,
		Organization:           i.Organization,
		Embedding:              i.Embedding.Slice(),
	}
}

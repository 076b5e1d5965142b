package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
)

// CalculateRequest configures a batch scoring run.
type CalculateRequest struct {
	UseSemantic bool              `json:"use_semantic"`
	Weights     *matching.Weights `json:"weights,omitempty"`
}

// GeneratePanelRequest configures panel composition.
type GeneratePanelRequest struct {
	PanelSize   int               `json:"panel_size"`
	UseSemantic bool              `json:"use_semantic"`
	Weights     *matching.Weights `json:"weights,omitempty"`
}

// ValidatePanelRequest carries a target composition keyed by category name.
type ValidatePanelRequest struct {
	Requirements map[string]int `json:"requirements,omitempty"`
}

// MatchRunDTO is the API view of a scoring run.
type MatchRunDTO struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	Status      string    `json:"status"`
	UseSemantic bool      `json:"use_semantic"`
	Results     string    `json:"results,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScoreBreakdownDTO is the API view of a single expert-item score with
// per-component interpretations.
type ScoreBreakdownDTO struct {
	ItemID          string               `json:"item_id"`
	ItemNo          string               `json:"item_no,omitempty"`
	Result          matching.ScoreResult `json:"result"`
	Interpretations map[string]string    `json:"interpretation"`
}

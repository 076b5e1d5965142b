package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewScoreBreakdownDTO(t *testing.T) {
	item := &model.Item{
		ID:     uuid.New(),
		ItemNo: "7",
	}
	result := &matching.ScoreResult{
		ExpertID:   "e1",
		FinalScore: 82.5,
	}
	interpretations := map[string]string{
		"w1_item_expert_cosine": "Excellent technical skill alignment with item requirements",
	}

	got := newScoreBreakdownDTO(item, result, interpretations)

	assert.Equal(t, item.ID.String(), got.ItemID)
	assert.Equal(t, "7", got.ItemNo)
	assert.Equal(t, *result, got.Result)
	assert.Equal(t, interpretations, got.Interpretations)
}

package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// panelExperts returns a balanced roster with distinct cosine scores against
// the item embedding {1, 0}.
func panelExperts() []Expert {
	return []Expert{
		testExpert("chair1", "Chair One", CategoryChairperson, []float32{1, 0}),
		testExpert("chair2", "Chair Two", CategoryChairperson, []float32{1, 1}),
		testExpert("d1", "Dept One", CategoryDepartmental, []float32{3, 1}),
		testExpert("d2", "Dept Two", CategoryDepartmental, []float32{1, 1}),
		testExpert("d3", "Dept Three", CategoryDepartmental, []float32{1, 3}),
		testExpert("x1", "Ext One", CategoryExternal, []float32{2, 1}),
		testExpert("x2", "Ext Two", CategoryExternal, []float32{1, 2}),
		testExpert("x3", "Ext Three", CategoryExternal, []float32{1, 4}),
	}
}

func TestComposeSizeFive(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	item := Item{ID: "i1", Embedding: []float32{1, 0}}

	panel := engine.Compose(context.Background(), item, panelExperts(), nil, 5, DefaultWeights(), false)

	require.Len(t, panel.Slots, 5)
	assert.Equal(t, 5, panel.Size)
	assert.Len(t, panel.AllScored, 8)

	// Best of each category in presentation order: chairperson first, then
	// departmental and external, score descending within a category.
	ids := make([]string, 0, 5)
	for _, slot := range panel.Slots {
		ids = append(ids, slot.ExpertID)
	}
	assert.Equal(t, []string{"chair1", "d1", "d2", "x1", "x2"}, ids)

	assert.Equal(t, RoleChairperson, panel.Slots[0].Role)
	for _, slot := range panel.Slots[1:] {
		assert.Equal(t, RoleMember, slot.Role)
	}
	for _, slot := range panel.Slots {
		assert.Equal(t, SelectionRecommended, slot.SelectionType)
	}

	assert.Equal(t, map[Category]int{
		CategoryChairperson:  1,
		CategoryDepartmental: 2,
		CategoryExternal:     2,
	}, panel.Actual)
	assert.Greater(t, panel.AverageScore, 0.0)
}

func TestComposeBackfillsWhenCategoryRunsOut(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	item := Item{ID: "i1", Embedding: []float32{1, 0}}

	// No chairpersons at all: the panel still reaches five members by pulling
	// the best remaining expert from the overall ranking.
	experts := panelExperts()[2:]
	panel := engine.Compose(context.Background(), item, experts, nil, 5, DefaultWeights(), false)

	require.Len(t, panel.Slots, 5)

	var fills []PanelSlot
	for _, slot := range panel.Slots {
		if slot.SelectionType == SelectionFill {
			fills = append(fills, slot)
		}
	}
	require.Len(t, fills, 1)
	assert.Equal(t, "d3", fills[0].ExpertID)
	assert.Equal(t, RoleMember, fills[0].Role)

	result := Validate(panel.Slots, panel.Target)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Issues, "missing 1 chairperson(s)")
	assert.Contains(t, result.Issues, "excess 1 departmental(s)")
}

func TestComposeUnderFilledPanelIsReported(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	item := Item{ID: "i1", Embedding: []float32{1, 0}}

	experts := []Expert{
		testExpert("d1", "Dept One", CategoryDepartmental, []float32{1, 0}),
		testExpert("x1", "Ext One", CategoryExternal, []float32{1, 1}),
	}
	panel := engine.Compose(context.Background(), item, experts, nil, 5, DefaultWeights(), false)

	assert.Len(t, panel.Slots, 2)
	assert.Equal(t, 2, panel.Size)
	assert.Equal(t, 5, panel.Target.total())
}

func TestComposeUnknownSizeFallsBackToFive(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	item := Item{ID: "i1", Embedding: []float32{1, 0}}

	panel := engine.Compose(context.Background(), item, panelExperts(), nil, 4, DefaultWeights(), false)
	assert.Equal(t, DefaultComposition, panel.Target)
	assert.Len(t, panel.Slots, 5)
}

func TestComposeSkipsFailedExperts(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	item := Item{ID: "i1", Embedding: []float32{1, 0}}

	experts := append(panelExperts(),
		testExpert("", "Broken", CategoryExternal, []float32{1, 0}))
	panel := engine.Compose(context.Background(), item, experts, nil, 5, DefaultWeights(), false)

	for _, slot := range panel.Slots {
		assert.NotEqual(t, "Broken", slot.ExpertName)
	}
	var failed int
	for _, res := range panel.AllScored {
		if res.Err != "" {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestCompositionForSize(t *testing.T) {
	assert.Equal(t, 3, CompositionForSize(3).total())
	assert.Equal(t, 5, CompositionForSize(5).total())
	assert.Equal(t, 7, CompositionForSize(7).total())
	assert.Equal(t, DefaultComposition, CompositionForSize(0))
	assert.Equal(t, DefaultComposition, CompositionForSize(11))
}

func TestValidateExactComposition(t *testing.T) {
	slots := []PanelSlot{
		{ScoreResult: ScoreResult{ExpertID: "c", Category: CategoryChairperson}},
		{ScoreResult: ScoreResult{ExpertID: "d1", Category: CategoryDepartmental}},
		{ScoreResult: ScoreResult{ExpertID: "d2", Category: CategoryDepartmental}},
		{ScoreResult: ScoreResult{ExpertID: "x1", Category: CategoryExternal}},
		{ScoreResult: ScoreResult{ExpertID: "x2", Category: CategoryExternal}},
	}

	result := Validate(slots, nil) // nil defaults to the size-5 composition
	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 2, result.Counts[CategoryExternal])
}

func TestValidateReportsShortfallAndExcess(t *testing.T) {
	slots := []PanelSlot{
		{ScoreResult: ScoreResult{ExpertID: "d1", Category: CategoryDepartmental}},
		{ScoreResult: ScoreResult{ExpertID: "d2", Category: CategoryDepartmental}},
		{ScoreResult: ScoreResult{ExpertID: "d3", Category: CategoryDepartmental}},
	}

	result := Validate(slots, CompositionForSize(3))
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"missing 1 chairperson(s)",
		"excess 2 departmental(s)",
		"missing 1 external(s)",
	}, result.Issues)
}

func TestSuggestReplacements(t *testing.T) {
	slots := []PanelSlot{
		{ScoreResult: ScoreResult{ExpertID: "c", Category: CategoryChairperson}},
		{ScoreResult: ScoreResult{ExpertID: "x1", Category: CategoryExternal}},
		{ScoreResult: ScoreResult{ExpertID: "x2", Category: CategoryExternal}},
	}
	allScored := []ScoreResult{
		{ExpertID: "x1", Category: CategoryExternal, FinalScore: 90},
		{ExpertID: "x3", Category: CategoryExternal, FinalScore: 85},
		{ExpertID: "d1", Category: CategoryDepartmental, FinalScore: 84},
		{ExpertID: "x4", Category: CategoryExternal, FinalScore: 80},
		{ExpertID: "x2", Category: CategoryExternal, FinalScore: 75},
		{ExpertID: "x5", Category: CategoryExternal, FinalScore: 70},
		{ExpertID: "x6", Category: CategoryExternal, FinalScore: 65},
		{ExpertID: "x7", Category: CategoryExternal, FinalScore: 60, Err: "scoring failed"},
	}

	got := SuggestReplacements(slots, "x2", allScored)
	require.Len(t, got, 3)
	assert.Equal(t, "x3", got[0].ExpertID)
	assert.Equal(t, "x4", got[1].ExpertID)
	assert.Equal(t, "x5", got[2].ExpertID)
	for _, res := range got {
		assert.Equal(t, CategoryExternal, res.Category)
		assert.NotEqual(t, "x2", res.ExpertID)
	}
}

func TestSuggestReplacementsUnknownExpert(t *testing.T) {
	slots := []PanelSlot{
		{ScoreResult: ScoreResult{ExpertID: "x1", Category: CategoryExternal}},
	}
	assert.Nil(t, SuggestReplacements(slots, "nobody", nil))
}

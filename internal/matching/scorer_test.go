package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testExpert(id, name string, category Category, embedding []float32) Expert {
	return Expert{
		ID:        id,
		Name:      name,
		Category:  category,
		Skills:    []string{"radar", "signal processing"},
		Embedding: embedding,
	}
}

func TestWeightedScoreFixture(t *testing.T) {
	comp := ComponentScores{
		GeometricItem: 80,
		SemanticItem:  60,
		GeometricPool: 40,
		SemanticPool:  20,
	}
	got := round2(weightedScore(comp, DefaultWeights(), nil))
	assert.Equal(t, 55.0, got)
}

func TestScorePerfectMatchWithoutSemantic(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Discipline: "Radar", Embedding: []float32{1, 0, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{1, 0, 0})

	res, err := engine.Score(context.Background(), item, expert, nil, DefaultWeights(), false)
	require.NoError(t, err)

	// Identical embeddings, empty pool: every component proxies w1.
	assert.Equal(t, 100.0, res.Components.GeometricItem)
	assert.Equal(t, 100.0, res.Components.SemanticItem)
	assert.Equal(t, 100.0, res.Components.GeometricPool)
	assert.Equal(t, 100.0, res.Components.SemanticPool)
	assert.Equal(t, 100.0, res.FinalScore)
	assert.Empty(t, res.Excluded)
}

func TestScoreOrthogonalEmbeddings(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Embedding: []float32{1, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{0, 1})

	res, err := engine.Score(context.Background(), item, expert, nil, DefaultWeights(), false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.FinalScore)
}

func TestScoreMissingExpertIDFails(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	expert := testExpert("", "No ID", CategoryExternal, []float32{1})
	_, err := engine.Score(context.Background(), Item{ID: "i1"}, expert, nil, DefaultWeights(), false)
	assert.Error(t, err)
}

func TestScoreUnknownCategoryFails(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	expert := testExpert("e1", "Dr. Rao", Category("guest"), []float32{1})
	_, err := engine.Score(context.Background(), Item{ID: "i1"}, expert, nil, DefaultWeights(), false)
	assert.Error(t, err)
}

func TestScoreRenormalizesWhenEmbeddingsUnavailable(t *testing.T) {
	// No embedder, no pre-attached embeddings: both geometric components are
	// excluded and the semantic components carry the full weight.
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Discipline: "radar signal processing"}
	expert := Expert{ID: "e1", Name: "Dr. Rao", Category: CategoryExternal,
		Skills: []string{"radar signal processing"}}

	res, err := engine.Score(context.Background(), item, expert, nil, DefaultWeights(), false)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"w1_item_expert_cosine", "w3_expert_candidates_cosine"},
		res.Excluded)

	// Weight mass redistributes onto w2/w4, which both hold the heuristic
	// text score, so the final equals that score exactly.
	heuristic := fallbackTextSimilarity(ItemText(item), ExpertText(expert))
	assert.Equal(t, round2(heuristic), res.FinalScore)
}

func TestScoreUsesPoolAverages(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Embedding: []float32{1, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{1, 0})
	pool := []Candidate{
		{ID: "c1", Name: "A", Embedding: []float32{1, 0}},
		{ID: "c2", Name: "B", Embedding: []float32{0, 1}},
	}

	res, err := engine.Score(context.Background(), item, expert, pool, DefaultWeights(), false)
	require.NoError(t, err)

	// Candidate similarities 1.0 and 0.0 average to 0.5.
	assert.Equal(t, 50.0, res.Components.GeometricPool)
	assert.Equal(t, 50.0, res.Components.SemanticPool)
	assert.Equal(t, 85.0, res.FinalScore) // 0.35*100 + 0.35*100 + 0.15*50 + 0.15*50
}

func TestScoreSemanticPoolLimitedToThreeCandidates(t *testing.T) {
	judge := &stubJudge{response: "70"}
	engine := NewEngine(nil, judge, zap.NewNop())

	item := Item{ID: "i1", Discipline: "Radar", Embedding: []float32{1, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{1, 0})
	pool := make([]Candidate, 5)
	for i := range pool {
		pool[i] = Candidate{ID: string(rune('a' + i)), Name: "Candidate", Embedding: []float32{1, 0}}
	}

	_, err := engine.Score(context.Background(), item, expert, pool, DefaultWeights(), true)
	require.NoError(t, err)

	// One call for w2 plus at most three pool judgments, one reason call.
	assert.Equal(t, 1+semanticPoolLimit+1, judge.calls)
}

func TestScoreBatchReturnsResultForEveryExpert(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Embedding: []float32{1, 0}}
	experts := []Expert{
		testExpert("e1", "Good", CategoryExternal, []float32{1, 0}),
		testExpert("", "Broken", CategoryExternal, []float32{1, 0}), // missing ID
		testExpert("e3", "Half", CategoryDepartmental, []float32{1, 1}),
	}

	results := engine.ScoreBatch(context.Background(), item, experts, nil, DefaultWeights(), false)
	require.Len(t, results, 3)

	var failed *ScoreResult
	for i := range results {
		if results[i].ExpertName == "Broken" {
			failed = &results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, 0.0, failed.FinalScore)
	assert.NotEmpty(t, failed.Err)
}

func TestScoreBatchRankingStableOnTies(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Embedding: []float32{1, 0}}
	experts := []Expert{
		testExpert("low", "Low", CategoryExternal, []float32{0, 1}),
		testExpert("tie-a", "TieA", CategoryExternal, []float32{1, 0}),
		testExpert("tie-b", "TieB", CategoryExternal, []float32{1, 0}),
	}

	results := engine.ScoreBatch(context.Background(), item, experts, nil, DefaultWeights(), false)
	require.Len(t, results, 3)

	// Higher score ranks numerically lower; equal scores keep input order.
	assert.Equal(t, "tie-a", results[0].ExpertID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "tie-b", results[1].ExpertID)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, "low", results[2].ExpertID)
	assert.Equal(t, 3, results[2].Rank)
}

func TestScoreReasonFallsBackToDescription(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())

	item := Item{ID: "i1", Embedding: []float32{1, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{1, 0})
	expert.Description = "Veteran radar engineer."

	res, err := engine.Score(context.Background(), item, expert, nil, DefaultWeights(), false)
	require.NoError(t, err)
	assert.Equal(t, "Veteran radar engineer.", res.Reason)
}

func TestScoreReasonFromJudge(t *testing.T) {
	judge := &stubJudge{response: "72\nSTRENGTHS: strong radar background matching the role requirements."}
	engine := NewEngine(nil, judge, zap.NewNop())

	item := Item{ID: "i1", Discipline: "Radar", Embedding: []float32{1, 0}}
	expert := testExpert("e1", "Dr. Rao", CategoryExternal, []float32{1, 0})

	res, err := engine.Score(context.Background(), item, expert, nil, DefaultWeights(), true)
	require.NoError(t, err)
	assert.Contains(t, res.Reason, "STRENGTHS")
}

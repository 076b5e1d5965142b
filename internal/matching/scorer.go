package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Weights control how the four component scores combine into the final
// relevance score. The engine never renormalizes caller-supplied weights;
// callers wanting a [0,100] final score must make them sum to 1.
type Weights struct {
	GeometricItem float64 `json:"w1_item_expert_cosine"`
	SemanticItem  float64 `json:"w2_item_expert_semantic"`
	GeometricPool float64 `json:"w3_expert_candidates_cosine"`
	SemanticPool  float64 `json:"w4_expert_candidates_semantic"`
}

// DefaultWeights favors the direct item-expert signals over the candidate
// pool signals.
func DefaultWeights() Weights {
	return Weights{
		GeometricItem: 0.35,
		SemanticItem:  0.35,
		GeometricPool: 0.15,
		SemanticPool:  0.15,
	}
}

func (w Weights) sum() float64 {
	return w.GeometricItem + w.SemanticItem + w.GeometricPool + w.SemanticPool
}

// ComponentScores holds the four independently computed sub-scores, each in
// [0,100].
type ComponentScores struct {
	GeometricItem float64 `json:"w1_item_expert_cosine"`
	SemanticItem  float64 `json:"w2_item_expert_semantic"`
	GeometricPool float64 `json:"w3_expert_candidates_cosine"`
	SemanticPool  float64 `json:"w4_expert_candidates_semantic"`
}

// ScoreResult is the outcome of scoring one expert against one item. Rank is
// assigned only after a full batch is sorted.
type ScoreResult struct {
	ExpertID   string          `json:"expert_id"`
	ExpertName string          `json:"expert_name"`
	Category   Category        `json:"category"`
	Components ComponentScores `json:"component_scores"`
	// Excluded lists components dropped because the embedding source was
	// unavailable; their weight was redistributed over the remaining ones.
	Excluded   []string `json:"excluded_components,omitempty"`
	FinalScore float64  `json:"final_score"`
	Rank       int      `json:"rank,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Err        string   `json:"error,omitempty"`
	Weights    Weights  `json:"weights_used"`
}

const (
	componentGeometricItem = "w1_item_expert_cosine"
	componentGeometricPool = "w3_expert_candidates_cosine"
	componentSemanticPool  = "w4_expert_candidates_semantic"
)

// semanticPoolLimit caps how many candidates are judged semantically per
// expert; judging the whole pool is too slow for large intakes.
const semanticPoolLimit = 3

// Score computes the relevance of one expert for one item against an optional
// candidate pool. An empty pool is valid: the item-expert scores stand in for
// the pool scores. A missing expert ID or unknown category is a caller bug
// and fails the call.
func (e *Engine) Score(ctx context.Context, item Item, expert Expert, pool []Candidate, weights Weights, useSemantic bool) (*ScoreResult, error) {
	if strings.TrimSpace(expert.ID) == "" {
		return nil, fmt.Errorf("expert %q has no identifier", expert.Name)
	}
	if !expert.Category.Valid() {
		return nil, fmt.Errorf("expert %s: unknown category %q", expert.ID, expert.Category)
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}

	itemText := ItemText(item)
	expertText := ExpertText(expert)

	itemEmb := e.resolveEmbedding(ctx, item.Embedding, itemText, "item", item.ID)
	expertEmb := e.resolveEmbedding(ctx, expert.Embedding, expertText, "expert", expert.ID)

	var (
		comp     ComponentScores
		excluded []string
	)

	// w1: item-expert geometric. Excluded entirely when either embedding is
	// unavailable; a fabricated vector would just inject noise that looks
	// like a real similarity.
	geoItemOK := len(itemEmb) > 0 && len(expertEmb) > 0
	if geoItemOK {
		comp.GeometricItem = Cosine(itemEmb, expertEmb) * 100
	} else {
		excluded = append(excluded, componentGeometricItem)
	}

	// w2: item-expert semantic. When semantic scoring is off, the geometric
	// score is a cheap proxy; without one the deterministic text heuristic
	// still applies, so this component is always present.
	switch {
	case useSemantic:
		comp.SemanticItem = e.Semantic(ctx, itemText, expertText, "job matching")
	case geoItemOK:
		comp.SemanticItem = comp.GeometricItem
	default:
		comp.SemanticItem = fallbackTextSimilarity(itemText, expertText)
	}

	// w3/w4: expert against the candidate pool.
	geoPoolOK := false
	semPoolOK := true
	if len(pool) > 0 {
		poolEmbs := make([][]float32, 0, len(pool))
		poolTexts := make([]string, 0, len(pool))
		for _, cand := range pool {
			text := CandidateText(cand)
			poolTexts = append(poolTexts, text)
			if emb := e.resolveEmbedding(ctx, cand.Embedding, text, "candidate", cand.ID); len(emb) > 0 {
				poolEmbs = append(poolEmbs, emb)
			}
		}

		if len(expertEmb) > 0 && len(poolEmbs) > 0 {
			comp.GeometricPool = mean(batchCosine(expertEmb, poolEmbs)) * 100
			geoPoolOK = true
		}

		if useSemantic {
			limit := len(poolTexts)
			if limit > semanticPoolLimit {
				limit = semanticPoolLimit
			}
			scores := make([]float64, 0, limit)
			for _, text := range poolTexts[:limit] {
				scores = append(scores, e.Semantic(ctx, expertText, text, "candidate evaluation"))
			}
			comp.SemanticPool = mean(scores)
		} else if geoPoolOK {
			comp.SemanticPool = comp.GeometricPool
		} else {
			semPoolOK = false
		}
	} else {
		// No candidates yet: the item-expert match is the only available
		// evidence, so it stands in for the pool signals.
		geoPoolOK = geoItemOK
		comp.GeometricPool = comp.GeometricItem
		comp.SemanticPool = comp.SemanticItem
	}
	if !geoPoolOK {
		comp.GeometricPool = 0
		excluded = append(excluded, componentGeometricPool)
	}
	if !semPoolOK {
		comp.SemanticPool = 0
		excluded = append(excluded, componentSemanticPool)
	}

	final := weightedScore(comp, weights, excluded)

	result := &ScoreResult{
		ExpertID:   expert.ID,
		ExpertName: expert.Name,
		Category:   expert.Category,
		Components: roundComponents(comp),
		Excluded:   excluded,
		FinalScore: round2(final),
		Weights:    weights,
	}
	result.Reason = e.reasonFor(ctx, item, expert, itemText, expertText, result, useSemantic)

	return result, nil
}

// weightedScore combines the present components. When components were
// excluded, their weight mass is redistributed proportionally across the
// remaining ones so the final score keeps the caller's intended scale.
func weightedScore(comp ComponentScores, weights Weights, excluded []string) float64 {
	excludedSet := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		excludedSet[name] = struct{}{}
	}

	type part struct {
		name   string
		weight float64
		value  float64
	}
	parts := []part{
		{componentGeometricItem, weights.GeometricItem, comp.GeometricItem},
		{"w2_item_expert_semantic", weights.SemanticItem, comp.SemanticItem},
		{componentGeometricPool, weights.GeometricPool, comp.GeometricPool},
		{componentSemanticPool, weights.SemanticPool, comp.SemanticPool},
	}

	var sum, presentWeight float64
	for _, p := range parts {
		if _, skip := excludedSet[p.name]; skip {
			continue
		}
		sum += p.weight * p.value
		presentWeight += p.weight
	}

	if len(excluded) == 0 || presentWeight == 0 {
		return sum
	}
	return sum * weights.sum() / presentWeight
}

// resolveEmbedding reuses a pre-attached embedding or asks the embedding
// source for one. A nil result means the geometric signal is unavailable for
// this profile.
func (e *Engine) resolveEmbedding(ctx context.Context, attached []float32, text, kind, id string) []float32 {
	if len(attached) > 0 {
		return attached
	}
	if e.embedder == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	emb, err := e.embedder.Embed(ctx, text)
	if err != nil {
		e.logger.Debug("embedding unavailable",
			zap.String("kind", kind),
			zap.String("id", id),
			zap.Error(err))
		return nil
	}
	return emb
}

// ScoreBatch scores every expert independently and returns exactly one result
// per input expert. A failure scoring one expert is recorded on its result
// and never aborts the batch. Results are sorted by final score descending
// (ties keep input order) and ranked 1..N.
func (e *Engine) ScoreBatch(ctx context.Context, item Item, experts []Expert, pool []Candidate, weights Weights, useSemantic bool) []ScoreResult {
	results := make([]ScoreResult, 0, len(experts))

	for _, expert := range experts {
		res, err := e.scoreSafely(ctx, item, expert, pool, weights, useSemantic)
		if err != nil {
			e.logger.Warn("scoring expert failed",
				zap.String("expert_id", expert.ID),
				zap.String("expert_name", expert.Name),
				zap.Error(err))
			results = append(results, ScoreResult{
				ExpertID:   expert.ID,
				ExpertName: expert.Name,
				Category:   expert.Category,
				FinalScore: 0,
				Err:        err.Error(),
			})
			continue
		}
		results = append(results, *res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

func (e *Engine) scoreSafely(ctx context.Context, item Item, expert Expert, pool []Candidate, weights Weights, useSemantic bool) (res *ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("scoring panic: %v", r)
		}
	}()
	return e.Score(ctx, item, expert, pool, weights, useSemantic)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundComponents(c ComponentScores) ComponentScores {
	return ComponentScores{
		GeometricItem: round2(c.GeometricItem),
		SemanticItem:  round2(c.SemanticItem),
		GeometricPool: round2(c.GeometricPool),
		SemanticPool:  round2(c.SemanticPool),
	}
}

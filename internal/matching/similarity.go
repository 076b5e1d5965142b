package matching

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Cosine computes cosine similarity between two embedding vectors, clamped
// into [0,1]. Negative cosine is reported as 0: opposed vectors carry no
// useful match signal here. Vectors of different lengths are truncated to the
// shorter length before comparison, matching the upstream pipeline which may
// mix embedding dimensions.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0.0, math.Min(1.0, sim))
}

// batchCosine compares one target vector against many.
func batchCosine(target []float32, embeddings [][]float32) []float64 {
	scores := make([]float64, len(embeddings))
	for i, emb := range embeddings {
		scores[i] = Cosine(target, emb)
	}
	return scores
}

const semanticPromptLimit = 500

var firstInteger = regexp.MustCompile(`\d+`)

// Semantic rates the relevance between two texts on a 0-100 scale using the
// judgment service, falling back to a keyword-overlap heuristic when the
// service is unavailable or returns nothing parseable.
func (e *Engine) Semantic(ctx context.Context, text1, text2, topic string) float64 {
	if e.judge == nil {
		return fallbackTextSimilarity(text1, text2)
	}

	prompt := fmt.Sprintf(`Rate the relevance match between these two profiles for %s on a scale of 0-100.

Job Requirements:
%s

Expert Profile:
%s

Consider: technical skill match, domain expertise, qualification relevance.
Respond with ONLY a number between 0 and 100. Nothing else.`,
		topic, truncateRunes(text1, semanticPromptLimit), truncateRunes(text2, semanticPromptLimit))

	raw, err := e.judge.Generate(ctx, prompt)
	if err != nil {
		e.logger.Debug("judge unavailable for semantic score, using heuristic", zap.Error(err))
		return fallbackTextSimilarity(text1, text2)
	}

	if match := firstInteger.FindString(raw); match != "" {
		score, err := strconv.Atoi(match)
		if err == nil {
			return math.Max(0, math.Min(100, float64(score)))
		}
	}

	e.logger.Debug("judge response had no parseable score, using heuristic",
		zap.String("response", truncateRunes(raw, 80)))
	return fallbackTextSimilarity(text1, text2)
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "and": {}, "or": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "with": {}, "by": {}, "as": {}, "this": {},
}

// technicalKeywords get a per-match bonus in the fallback heuristic. The list
// reflects the recruitment domains the service screens for.
var technicalKeywords = map[string]struct{}{
	"engineering": {}, "electronics": {}, "communication": {}, "signal": {},
	"processing": {}, "radar": {}, "embedded": {}, "vlsi": {}, "fpga": {},
	"microwave": {}, "antenna": {}, "rf": {}, "digital": {}, "analog": {},
	"control": {}, "systems": {}, "software": {}, "hardware": {},
	"machine": {}, "learning": {}, "ai": {}, "ml": {}, "deep": {},
	"neural": {}, "computer": {}, "science": {}, "mechanical": {},
	"aerospace": {}, "propulsion": {}, "physics": {}, "chemistry": {},
	"materials": {}, "design": {}, "research": {}, "development": {},
}

// fallbackTextSimilarity is the deterministic stand-in for the judgment
// service: Jaccard overlap of non-stop-word tokens, scaled onto [20,100],
// plus 5 points per shared technical keyword. Two empty texts score a
// neutral 50.
func fallbackTextSimilarity(text1, text2 string) float64 {
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return 50.0
	}

	words1 := tokenSet(text1)
	words2 := tokenSet(text2)
	if len(words1) == 0 || len(words2) == 0 {
		return 50.0
	}

	var common, union, techMatches int
	for w := range words1 {
		if _, ok := words2[w]; ok {
			common++
			if _, tech := technicalKeywords[w]; tech {
				techMatches++
			}
		}
	}
	union = len(words1) + len(words2) - common

	jaccard := float64(common) / float64(union)
	score := jaccard*60 + float64(techMatches)*5 + 20

	return math.Min(100.0, math.Round(score*100)/100)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

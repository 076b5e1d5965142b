package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const reasonProfileLimit = 800

// reasonFor produces the human-readable rationale attached to a score. With
// semantic scoring enabled and the judge reachable it asks for a structured
// explanation grounded in the already-computed component scores; otherwise it
// falls back to the expert's stored description or a keyword-derived sentence.
func (e *Engine) reasonFor(ctx context.Context, item Item, expert Expert, itemText, expertText string, res *ScoreResult, useSemantic bool) string {
	if !useSemantic || e.judge == nil || itemText == "" || expertText == "" {
		if strings.TrimSpace(expert.Description) != "" {
			return expert.Description
		}
		return fallbackReason(itemText, expertText)
	}

	name := expert.Name
	if name == "" {
		name = "this expert"
	}

	prompt := fmt.Sprintf(`Analyze why %s received a %.1f%% relevance score for evaluating candidates for this position.

JOB REQUIREMENTS:
%s

EXPERT PROFILE:
%s

CALCULATED SCORES (explain each):
- Item-Expert Cosine Match: %.1f%%
- Item-Expert Semantic Match: %.1f%%
- Expert-Candidates Cosine: %.1f%%
- Expert-Candidates Semantic: %.1f%%
- Final Weighted Score: %.1f%%

Provide your analysis in this EXACT format:

STRENGTHS (What Matches):
List 2-3 specific points where the expert's qualifications match the job requirements.

GAPS (What's Missing):
Identify 1-2 specific gaps or mismatches that prevent a higher score.

SCORE BREAKDOWN (%.1f%%):
Explain how the strengths, gaps, and component scores lead to this exact percentage.`,
		name, res.FinalScore,
		truncateRunes(itemText, reasonProfileLimit),
		truncateRunes(expertText, reasonProfileLimit),
		res.Components.GeometricItem,
		res.Components.SemanticItem,
		res.Components.GeometricPool,
		res.Components.SemanticPool,
		res.FinalScore,
		res.FinalScore,
	)

	raw, err := e.judge.Generate(ctx, prompt)
	if err != nil || len(strings.TrimSpace(raw)) < 30 {
		if err != nil {
			e.logger.Debug("judge unavailable for rationale", zap.Error(err))
		}
		if strings.TrimSpace(expert.Description) != "" {
			return expert.Description
		}
		return fallbackReason(itemText, expertText)
	}

	return strings.TrimSpace(raw)
}

// fallbackReason builds a templated sentence from the technical keywords the
// two texts share.
func fallbackReason(itemText, expertText string) string {
	itemWords := tokenSet(itemText)
	expertWords := tokenSet(expertText)

	var matched []string
	for w := range technicalKeywords {
		if _, ok := itemWords[w]; !ok {
			continue
		}
		if _, ok := expertWords[w]; !ok {
			continue
		}
		matched = append(matched, w)
	}
	sort.Strings(matched)
	if len(matched) > 3 {
		matched = matched[:3]
	}

	if len(matched) > 0 {
		return fmt.Sprintf("Expert has relevant experience in %s which aligns with the position requirements.",
			strings.Join(matched, ", "))
	}
	return "Expert has relevant domain expertise and experience for evaluating candidates in this field."
}

package matching

import "fmt"

// scoreLevel maps a component score onto its presentation label. Kept apart
// from the scoring math so wording changes never touch the scoring contract.
func scoreLevel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Low"
	default:
		return "Poor"
	}
}

// InterpretScores renders a human-readable description for each component
// score.
func InterpretScores(c ComponentScores) map[string]string {
	return map[string]string{
		"w1_item_expert_cosine": fmt.Sprintf(
			"%s technical skill alignment with item requirements", scoreLevel(c.GeometricItem)),
		"w2_item_expert_semantic": fmt.Sprintf(
			"%s semantic relevance to job description", scoreLevel(c.SemanticItem)),
		"w3_expert_candidates_cosine": fmt.Sprintf(
			"%s ability to evaluate candidate skill sets", scoreLevel(c.GeometricPool)),
		"w4_expert_candidates_semantic": fmt.Sprintf(
			"%s semantic match with candidate profiles", scoreLevel(c.SemanticPool)),
	}
}

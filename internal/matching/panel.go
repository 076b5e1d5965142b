package matching

import (
	"context"
	"fmt"
	"sort"
)

// Role is the function an expert performs on a panel.
type Role string

const (
	RoleChairperson Role = "chairperson"
	RoleMember      Role = "member"
)

// SelectionType records how a slot was filled.
type SelectionType string

const (
	// SelectionRecommended marks experts picked from their own category's
	// ranking.
	SelectionRecommended SelectionType = "ai_recommended"
	// SelectionFill marks experts backfilled from the overall ranking after
	// a category ran out.
	SelectionFill SelectionType = "ai_recommended_fill"
)

// Composition is the target expert count per category for a panel.
type Composition map[Category]int

// DefaultComposition is used for panel sizes without an explicit entry.
var DefaultComposition = Composition{
	CategoryChairperson:  1,
	CategoryDepartmental: 2,
	CategoryExternal:     2,
}

// panelSizes maps a requested panel size onto its target composition.
var panelSizes = map[int]Composition{
	3: {CategoryChairperson: 1, CategoryDepartmental: 1, CategoryExternal: 1},
	5: {CategoryChairperson: 1, CategoryDepartmental: 2, CategoryExternal: 2},
	7: {CategoryChairperson: 1, CategoryDepartmental: 3, CategoryExternal: 3},
}

// CompositionForSize returns the target composition for a panel size,
// defaulting to the size-5 composition for unknown sizes.
func CompositionForSize(size int) Composition {
	if c, ok := panelSizes[size]; ok {
		return c
	}
	return DefaultComposition
}

func (c Composition) total() int {
	var n int
	for _, count := range c {
		n += count
	}
	return n
}

// PanelSlot is one selected expert with its assigned role and selection
// provenance.
type PanelSlot struct {
	ScoreResult
	Role          Role          `json:"panel_role"`
	SelectionType SelectionType `json:"selection_type"`
}

// Panel is the composed, role-assigned, category-balanced set of experts for
// one item. An under-filled panel is a valid, reportable outcome.
type Panel struct {
	ItemID       string           `json:"item_id"`
	Slots        []PanelSlot      `json:"recommended_panel"`
	AllScored    []ScoreResult    `json:"all_scored_experts"`
	Target       Composition      `json:"target_composition"`
	Actual       map[Category]int `json:"actual_composition"`
	Size         int              `json:"panel_size"`
	AverageScore float64          `json:"average_score"`
}

// Compose scores every expert against the item and assembles a
// category-balanced panel of the requested size. Per-expert scoring failures
// are recorded on the ranking but never abort composition; failed entries are
// not selected for slots.
func (e *Engine) Compose(ctx context.Context, item Item, experts []Expert, pool []Candidate, panelSize int, weights Weights, useSemantic bool) *Panel {
	composition := CompositionForSize(panelSize)

	ranked := e.ScoreBatch(ctx, item, experts, pool, weights, useSemantic)

	byCategory := map[Category][]ScoreResult{}
	for _, res := range ranked {
		if res.Err != "" {
			continue
		}
		byCategory[res.Category] = append(byCategory[res.Category], res)
	}

	var slots []PanelSlot
	selected := map[string]struct{}{}

	// Top experts per category first. The ranking is already sorted, so each
	// category sub-list is too.
	for _, category := range []Category{CategoryChairperson, CategoryDepartmental, CategoryExternal} {
		count := composition[category]
		for _, res := range byCategory[category] {
			if count == 0 {
				break
			}
			if _, dup := selected[res.ExpertID]; dup {
				continue
			}
			role := RoleMember
			if category == CategoryChairperson {
				role = RoleChairperson
			}
			slots = append(slots, PanelSlot{ScoreResult: res, Role: role, SelectionType: SelectionRecommended})
			selected[res.ExpertID] = struct{}{}
			count--
		}
	}

	// Backfill remaining slots from the overall ranking regardless of
	// category. Running out of experts leaves the panel under-filled.
	for _, res := range ranked {
		if len(slots) >= composition.total() {
			break
		}
		if res.Err != "" {
			continue
		}
		if _, dup := selected[res.ExpertID]; dup {
			continue
		}
		slots = append(slots, PanelSlot{ScoreResult: res, Role: RoleMember, SelectionType: SelectionFill})
		selected[res.ExpertID] = struct{}{}
	}

	// Presentation order: category precedence, then score descending.
	sort.SliceStable(slots, func(i, j int) bool {
		oi, oj := categoryOrder[slots[i].Category], categoryOrder[slots[j].Category]
		if oi != oj {
			return oi < oj
		}
		return slots[i].FinalScore > slots[j].FinalScore
	})

	actual := map[Category]int{}
	var scoreSum float64
	for _, slot := range slots {
		actual[slot.Category]++
		scoreSum += slot.FinalScore
	}

	avg := 0.0
	if len(slots) > 0 {
		avg = round2(scoreSum / float64(len(slots)))
	}

	return &Panel{
		ItemID:       item.ID,
		Slots:        slots,
		AllScored:    ranked,
		Target:       composition,
		Actual:       actual,
		Size:         len(slots),
		AverageScore: avg,
	}
}

// ValidationResult reports how a panel measures up against a target
// composition.
type ValidationResult struct {
	Valid        bool             `json:"valid"`
	Issues       []string         `json:"issues"`
	Counts       map[Category]int `json:"counts"`
	Requirements Composition      `json:"requirements"`
}

// Validate checks a panel against composition requirements without mutating
// anything. Nil requirements default to the standard size-5 composition.
func Validate(slots []PanelSlot, requirements Composition) ValidationResult {
	if requirements == nil {
		requirements = DefaultComposition
	}

	counts := map[Category]int{}
	for _, slot := range slots {
		counts[slot.Category]++
	}

	var issues []string
	for _, category := range []Category{CategoryChairperson, CategoryDepartmental, CategoryExternal} {
		required, ok := requirements[category]
		if !ok {
			continue
		}
		actual := counts[category]
		switch {
		case actual < required:
			issues = append(issues, fmt.Sprintf("missing %d %s(s)", required-actual, category))
		case actual > required:
			issues = append(issues, fmt.Sprintf("excess %d %s(s)", actual-required, category))
		}
	}

	return ValidationResult{
		Valid:        len(issues) == 0,
		Issues:       issues,
		Counts:       counts,
		Requirements: requirements,
	}
}

// SuggestReplacements returns up to three same-category experts not already
// on the panel, in their pre-existing rank order. No re-scoring happens. An
// unknown expert ID yields no suggestions.
func SuggestReplacements(slots []PanelSlot, expertID string, allScored []ScoreResult) []ScoreResult {
	var replacing *PanelSlot
	for i := range slots {
		if slots[i].ExpertID == expertID {
			replacing = &slots[i]
			break
		}
	}
	if replacing == nil {
		return nil
	}

	onPanel := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		onPanel[slot.ExpertID] = struct{}{}
	}

	var suggestions []ScoreResult
	for _, res := range allScored {
		if len(suggestions) == 3 {
			break
		}
		if _, taken := onPanel[res.ExpertID]; taken {
			continue
		}
		if res.Category != replacing.Category || res.Err != "" {
			continue
		}
		suggestions = append(suggestions, res)
	}
	return suggestions
}

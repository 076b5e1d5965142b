package matching

import (
	"fmt"
	"strings"
)

// Item is a job opening to be matched against evaluators.
type Item struct {
	ID                     string
	ItemNo                 string
	Discipline             string
	Title                  string
	EssentialQualification string
	Description            string
	GateCode               string
	EquivalentDegrees      []string
	Organization           string
	Embedding              []float32
}

// Expert is a candidate evaluator/panelist profile.
type Expert struct {
	ID              string
	Name            string
	Role            string
	Skills          []string
	Qualifications  []string
	Specializations []string
	Affiliation     string
	Category        Category
	Description     string
	Embedding       []float32
}

// Candidate is an applicant the expert would ultimately assess.
type Candidate struct {
	ID             string
	Name           string
	Skills         []string
	Qualifications []string
	GateScore      string
	GatePaper      string
	Experience     string
	Education      string
	Embedding      []float32
}

// ItemText projects an item into the single text blob used for both
// embedding and semantic comparison. Field order is fixed so identical
// items always project to identical text.
func ItemText(item Item) string {
	b := newProjection()
	b.add("Discipline", item.Discipline)
	b.add("Title", item.Title)
	b.add("Qualification", item.EssentialQualification)
	b.add("Description", item.Description)
	b.add("GATE Paper", item.GateCode)
	b.addList("Equivalent Degrees", item.EquivalentDegrees)
	b.add("Organization", item.Organization)
	return b.String()
}

// ExpertText projects an expert profile into its comparison text.
func ExpertText(expert Expert) string {
	b := newProjection()
	b.add("Name", expert.Name)
	b.add("Role", expert.Role)
	b.addList("Skills", expert.Skills)
	b.addList("Qualifications", expert.Qualifications)
	b.addList("Specializations", expert.Specializations)
	b.add("Affiliation", expert.Affiliation)
	b.add("Category", string(expert.Category))
	b.add("Expertise", expert.Description)
	return b.String()
}

// CandidateText projects a candidate profile into its comparison text.
func CandidateText(cand Candidate) string {
	b := newProjection()
	b.add("Name", cand.Name)
	b.addList("Skills", cand.Skills)
	b.addList("Qualifications", cand.Qualifications)
	b.add("GATE Score", cand.GateScore)
	b.add("GATE Paper", cand.GatePaper)
	b.add("Experience", cand.Experience)
	b.add("Education", cand.Education)
	return b.String()
}

type projection struct {
	parts []string
}

func newProjection() *projection {
	return &projection{}
}

func (p *projection) add(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p.parts = append(p.parts, fmt.Sprintf("%s: %s", label, value))
}

func (p *projection) addList(label string, values []string) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return
	}
	p.parts = append(p.parts, fmt.Sprintf("%s: %s", label, strings.Join(kept, ", ")))
}

func (p *projection) String() string {
	return strings.Join(p.parts, " ")
}

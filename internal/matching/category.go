package matching

import (
	"fmt"
	"strings"
)

// Category classifies an expert for panel composition purposes. The set is
// closed: an unrecognized category on an expert is a caller bug and is
// rejected rather than silently dropping the expert from selection.
type Category string

const (
	CategoryChairperson  Category = "chairperson"
	CategoryDepartmental Category = "departmental"
	CategoryExternal     Category = "external"
)

// categoryOrder is the presentation precedence used when ordering panels.
var categoryOrder = map[Category]int{
	CategoryChairperson:  0,
	CategoryDepartmental: 1,
	CategoryExternal:     2,
}

// ParseCategory validates a free-form category string against the closed set.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryChairperson, CategoryDepartmental, CategoryExternal:
		return c, nil
	default:
		return "", fmt.Errorf("unknown expert category %q", s)
	}
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	_, ok := categoryOrder[c]
	return ok
}

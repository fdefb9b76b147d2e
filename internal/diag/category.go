package diag

import "strings"

// Category is the coarse rule family surfaced to editors as the diagnostic code.
// Catalogue rules may declare categories beyond the predefined ones.
type Category string

const (
	CatSemantic    Category = "Semantic"
	CatMissing     Category = "Missing"
	CatDuplicate   Category = "Duplicate"
	CatDescriptive Category = "Descriptive"
	CatInteraction Category = "Interaction"
	CatContrast    Category = "Contrast"
)

// ParseCategory canonicalizes a catalogue "type" value.
// Known categories match case-insensitively; unknown ones are kept verbatim.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range []Category{CatSemantic, CatMissing, CatDuplicate, CatDescriptive, CatInteraction, CatContrast} {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Category(s)
}

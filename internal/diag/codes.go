package diag

import (
	"fmt"
	"slices"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Семантика разметки
	SemInfo       Code = 1000
	SemDivRole    Code = 1001
	SemSpanRole   Code = 1002
	SemSpanButton Code = 1003

	// Отсутствующие атрибуты и тексты
	MisInfo             Code = 2000
	MissingAlt          Code = 2001
	MissingAnchorText   Code = 2002
	MissingTitle        Code = 2003
	MissingTitleText    Code = 2004
	MissingLang         Code = 2005
	MissingFrameTitle   Code = 2006
	MissingInputLabel   Code = 2007
	MissingLabelFor     Code = 2008
	EmptyAriaLabel      Code = 2009
	EmptyAriaLabelledby Code = 2010
	MissingButtonText   Code = 2011
	MissingHeadingText  Code = 2012

	// Качество текстовых альтернатив
	TxtInfo           Code = 3000
	NonDescriptiveAlt Code = 3001
	BadAltStart       Code = 3002
	AltTooLong        Code = 3003

	// Взаимодействие: зум, фокус
	IntInfo          Code = 4000
	ViewportNoZoom   Code = 4001
	ViewportMaxScale Code = 4002
	PositiveTabindex Code = 4003

	// Контраст
	ConInfo     Code = 5000
	LowContrast Code = 5001

	// Правила из каталога
	RulInfo       Code = 6000
	CatalogueRule Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode: "unknown",

		SemInfo:       "semantic markup",
		SemDivRole:    "div without role",
		SemSpanRole:   "span without role",
		SemSpanButton: "span used as button",

		MisInfo:             "missing information",
		MissingAlt:          "missing alt",
		MissingAnchorText:   "empty link text",
		MissingTitle:        "missing title",
		MissingTitleText:    "empty title",
		MissingLang:         "missing lang",
		MissingFrameTitle:   "missing frame title",
		MissingInputLabel:   "missing input label",
		MissingLabelFor:     "missing label for input",
		EmptyAriaLabel:      "empty aria-label",
		EmptyAriaLabelledby: "empty aria-labelledby",
		MissingButtonText:   "empty button text",
		MissingHeadingText:  "empty heading",

		TxtInfo:           "text alternatives",
		NonDescriptiveAlt: "non-descriptive alt",
		BadAltStart:       "bad alt start",
		AltTooLong:        "alt too long",

		IntInfo:          "interaction",
		ViewportNoZoom:   "zoom disabled",
		ViewportMaxScale: "maximum scale",
		PositiveTabindex: "positive tabindex",

		ConInfo:     "contrast",
		LowContrast: "insufficient contrast",

		RulInfo:       "catalogue",
		CatalogueRule: "catalogue rule",
	}

	codeCategory = map[Code]Category{
		SemDivRole:    CatSemantic,
		SemSpanRole:   CatSemantic,
		SemSpanButton: CatSemantic,

		MissingAlt:          CatMissing,
		MissingAnchorText:   CatMissing,
		MissingTitle:        CatMissing,
		MissingTitleText:    CatMissing,
		MissingLang:         CatMissing,
		MissingFrameTitle:   CatMissing,
		MissingInputLabel:   CatMissing,
		MissingLabelFor:     CatMissing,
		EmptyAriaLabel:      CatMissing,
		EmptyAriaLabelledby: CatMissing,
		MissingButtonText:   CatMissing,
		MissingHeadingText:  CatMissing,

		NonDescriptiveAlt: CatDescriptive,
		BadAltStart:       CatDescriptive,
		AltTooLong:        CatDescriptive,

		ViewportNoZoom:   CatInteraction,
		ViewportMaxScale: CatInteraction,
		PositiveTabindex: CatInteraction,

		LowContrast: CatContrast,
	}
)

// Codes returns every known non-group code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c == UnknownCode || c%1000 == 0 {
			continue
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MIS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TXT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CON%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Category returns the default category of a built-in code.
// Catalogue rules carry their own category on the Diagnostic.
func (c Code) Category() Category {
	return codeCategory[c]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

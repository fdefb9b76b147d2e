package contrast

import (
	"fmt"
	"strings"
)

// Level is a WCAG conformance tier.
type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// ParseLevel accepts A, AA or AAA in any case. Empty input means AA.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return LevelAA, nil
	case "A":
		return LevelA, nil
	case "AA":
		return LevelAA, nil
	case "AAA":
		return LevelAAA, nil
	}
	return "", fmt.Errorf("unknown conformance level %q (want A, AA or AAA)", s)
}

func (l Level) String() string {
	return string(l)
}

// Criterion names the success criterion that governs text contrast at this level.
func (l Level) Criterion() string {
	if l == LevelAAA {
		return "SC 1.4.6: Contrast (Enhanced)"
	}
	return "SC 1.4.3: Contrast (Minimum)"
}

// Large-text thresholds in CSS px: 18pt regular, 14pt bold.
const (
	largeTextPx     = 24.0
	largeBoldTextPx = 14 * PxPerPt
)

// IsLargeText reports whether text of the given px size qualifies as large.
func IsLargeText(px float64, bold bool) bool {
	if bold {
		return px >= largeBoldTextPx
	}
	return px >= largeTextPx
}

// RequiredRatio returns the minimum contrast ratio for the level.
// Level A sets no text contrast requirement, expressed as 1.
func RequiredRatio(level Level, large bool) float64 {
	switch level {
	case LevelAA:
		if large {
			return 3.0
		}
		return 4.5
	case LevelAAA:
		if large {
			return 4.5
		}
		return 7.0
	}
	return 1.0
}

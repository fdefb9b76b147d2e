package contrast

import (
	"fmt"
	"math"
	"strings"
)

// Unit is a CSS font-size unit.
type Unit string

const (
	UnitPx Unit = "px"
	UnitPt Unit = "pt"
)

// PxPerPt converts points to CSS pixels.
const PxPerPt = 1.333

// DefaultFontSize applies when a style block declares no font-size.
const DefaultFontSize = 18.0

// Request describes one foreground/background pairing to check.
type Request struct {
	Background Color
	Foreground Color
	Size       float64
	Unit       Unit
	Bold       bool
	Level      Level
}

// SizePx returns the font size in CSS pixels.
func (r Request) SizePx() float64 {
	size := r.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	if strings.EqualFold(string(r.Unit), string(UnitPt)) {
		return size * PxPerPt
	}
	return size
}

// Result is the outcome of Evaluate. Suggestions are only computed for
// failing pairs; a nil suggestion means the search found nothing on that side.
type Result struct {
	Level      Level
	Large      bool
	Required   float64
	Actual     float64
	Background *Color // new background, foreground held
	Foreground *Color // new foreground, background held
}

// Passes reports whether the measured ratio meets the requirement.
func (r Result) Passes() bool {
	return r.Actual >= r.Required
}

// HasSuggestion reports whether at least one side can be fixed.
func (r Result) HasSuggestion() bool {
	return r.Background != nil || r.Foreground != nil
}

// Evaluate measures a pairing and, when it fails, searches for replacement
// colors on each side independently.
func Evaluate(req Request) Result {
	large := IsLargeText(req.SizePx(), req.Bold)
	res := Result{
		Level:    req.Level,
		Large:    large,
		Required: RequiredRatio(req.Level, large),
		Actual:   Ratio(req.Background, req.Foreground),
	}
	if res.Passes() {
		return res
	}
	if c, ok := Closest(req.Background, req.Foreground, res.Required); ok {
		res.Background = &c
	}
	if c, ok := Closest(req.Foreground, req.Background, res.Required); ok {
		res.Foreground = &c
	}
	return res
}

// FormatRatio renders a ratio the way reports print it. The value is cut,
// not rounded, to two decimals so a failing ratio never prints as its
// requirement.
func FormatRatio(r float64) string {
	// epsilon absorbs binary noise such as 4.29*100 = 428.99999999999994
	s := fmt.Sprintf("%.2f", math.Floor(r*100+1e-9)/100)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

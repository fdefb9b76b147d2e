// Package checks holds the construct validators: one predicate per HTML
// construct recognized by the pattern library. Validators are pure functions
// of the document and the match; a validator that finds nothing returns nil.
package checks

import (
	"wals/internal/contrast"
	"wals/internal/diag"
	"wals/internal/pattern"
)

// Context carries the per-call inputs a validator may consult.
type Context struct {
	Doc   string
	Level contrast.Level
}

// Note is a secondary location attached to a finding.
type Note struct {
	Start, End int
	Msg        string
}

// Finding is a defect located by a validator. Offsets are absolute.
type Finding struct {
	Start, End int
	Code       diag.Code
	Severity   diag.Severity
	Message    string
	Notes      []Note
}

// Validator inspects one match.
type Validator func(ctx Context, m pattern.Match) []Finding

var validators = map[pattern.Construct]Validator{
	pattern.ConstructDiv:      validateDiv,
	pattern.ConstructSpan:     validateSpan,
	pattern.ConstructAnchor:   validateAnchor,
	pattern.ConstructImage:    validateImage,
	pattern.ConstructInput:    validateInput,
	pattern.ConstructHead:     validateHead,
	pattern.ConstructHTML:     validateHTML,
	pattern.ConstructTabindex: validateTabindex,
	pattern.ConstructFrame:    validateFrame,
	pattern.ConstructStyle:    validateStyle,
	pattern.ConstructButton:   validateButton,
	pattern.ConstructHeading:  validateHeading,
}

// Validate runs the validator registered for the match's construct.
func Validate(ctx Context, m pattern.Match) []Finding {
	v, ok := validators[m.Construct]
	if !ok {
		return nil
	}
	return v(ctx, m)
}

// Describe lists the built-in checks per construct, for `wals rules`.
func Describe() map[pattern.Construct][]diag.Code {
	return map[pattern.Construct][]diag.Code{
		pattern.ConstructDiv:      {diag.SemDivRole, diag.PositiveTabindex},
		pattern.ConstructSpan:     {diag.SemSpanButton, diag.SemSpanRole, diag.PositiveTabindex},
		pattern.ConstructAnchor:   {diag.MissingAnchorText, diag.PositiveTabindex},
		pattern.ConstructImage:    {diag.MissingAlt, diag.NonDescriptiveAlt, diag.BadAltStart, diag.AltTooLong, diag.PositiveTabindex},
		pattern.ConstructInput:    {diag.EmptyAriaLabel, diag.MissingLabelFor, diag.EmptyAriaLabelledby, diag.MissingInputLabel, diag.PositiveTabindex},
		pattern.ConstructHead:     {diag.MissingTitle, diag.MissingTitleText, diag.ViewportNoZoom, diag.ViewportMaxScale, diag.PositiveTabindex},
		pattern.ConstructHTML:     {diag.MissingLang, diag.PositiveTabindex},
		pattern.ConstructTabindex: {diag.PositiveTabindex},
		pattern.ConstructFrame:    {diag.MissingFrameTitle, diag.PositiveTabindex},
		pattern.ConstructStyle:    {diag.LowContrast},
		pattern.ConstructButton:   {diag.MissingButtonText, diag.PositiveTabindex},
		pattern.ConstructHeading:  {diag.MissingHeadingText, diag.PositiveTabindex},
	}
}

func finding(m pattern.Match, code diag.Code, sev diag.Severity, msg string) Finding {
	return Finding{Start: m.Start, End: m.End, Code: code, Severity: sev, Message: msg}
}

package checks

import (
	"regexp"
	"strings"

	"wals/internal/diag"
	"wals/internal/pattern"
)

const (
	msgDivRole    = `Use Semantic HTML5 or specify a WAI-ARIA role [role=""]`
	msgSpanButton = "Change the span to a <button>"
	msgSpanRole   = `Provide a WAI-ARIA role [role=""]`
	msgLang       = `Provide a language [lang=""]`
	msgFrameTitle = `Provide a title that describes the frame's content [title=""]`
	msgTabindex   = "A tabindex greater than 0 interferes with the focus order. Try restructuring the HTML"
	msgAnchorText = "Provide a descriptive text in between the tags"
	msgButtonText = "Provide a descriptive text in between the tags"
	msgHeading    = "Headings must have content. Provide a descriptive text in between the tags"
)

var (
	clickableRe    = regexp.MustCompile(`(?i)button|btn`)
	tabindexAttr   = regexp.MustCompile(`(?i)(?:^|[\s"'/])(tabindex\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))`)
	closeAnchorRe  = regexp.MustCompile(`(?i)</a\s*>`)
	closeButtonRe  = regexp.MustCompile(`(?i)</button\s*>`)
	closeHeadingRe = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
)

func validateDiv(_ Context, m pattern.Match) []Finding {
	var out []Finding
	if role, _ := attr(m.Text, "role"); !hasLetters(role) {
		out = append(out, finding(m, diag.SemDivRole, diag.SevInfo, msgDivRole))
	}
	return append(out, tabindexIn(m)...)
}

func validateSpan(_ Context, m pattern.Match) []Finding {
	var out []Finding
	hidden, _ := attr(m.Text, "aria-hidden")
	role, _ := attr(m.Text, "role")
	switch {
	case strings.EqualFold(hidden, "true"), hasLetters(role):
	case clickableRe.MatchString(m.Text):
		out = append(out, finding(m, diag.SemSpanButton, diag.SevInfo, msgSpanButton))
	default:
		out = append(out, finding(m, diag.SemSpanRole, diag.SevWarning, msgSpanRole))
	}
	return append(out, tabindexIn(m)...)
}

// validateAnchor flags links without an accessible name. The finding
// covers the start tag only.
func validateAnchor(ctx Context, m pattern.Match) []Finding {
	return validateNamed(ctx, m, closeAnchorRe, diag.MissingAnchorText, msgAnchorText)
}

func validateButton(ctx Context, m pattern.Match) []Finding {
	return validateNamed(ctx, m, closeButtonRe, diag.MissingButtonText, msgButtonText)
}

func validateHeading(ctx Context, m pattern.Match) []Finding {
	return validateNamed(ctx, m, closeHeadingRe, diag.MissingHeadingText, msgHeading)
}

// validateNamed reports an element whose start tag is m and which has no
// accessible name. Unterminated elements are skipped.
func validateNamed(ctx Context, m pattern.Match, closeTag *regexp.Regexp, code diag.Code, msg string) []Finding {
	out := tabindexIn(m)
	_, content, ok := pattern.Element(ctx.Doc, m, closeTag)
	if !ok || hasAccessibleName(m.Text, content.Text) {
		return out
	}
	return append([]Finding{finding(m, code, diag.SevWarning, msg)}, out...)
}

func validateHTML(_ Context, m pattern.Match) []Finding {
	out := tabindexIn(m)
	if lang, _ := attr(m.Text, "lang"); !hasLetters(lang) {
		return append([]Finding{finding(m, diag.MissingLang, diag.SevWarning, msgLang)}, out...)
	}
	return out
}

func validateFrame(_ Context, m pattern.Match) []Finding {
	var out []Finding
	if title, _ := attr(m.Text, "title"); !hasLetters(title) {
		out = append(out, finding(m, diag.MissingFrameTitle, diag.SevInfo, msgFrameTitle))
	}
	return append(out, tabindexIn(m)...)
}

func validateTabindex(_ Context, m pattern.Match) []Finding {
	_, value, _ := strings.Cut(m.Text, "=")
	if badTabindex(value) {
		return []Finding{finding(m, diag.PositiveTabindex, diag.SevError, msgTabindex)}
	}
	return nil
}

// tabindexIn checks every tabindex attribute inside a tag consumed by
// another construct, reporting on the attribute span.
func tabindexIn(m pattern.Match) []Finding {
	var out []Finding
	for _, sub := range m.SubAll(tabindexAttr) {
		out = append(out, validateTabindex(Context{}, sub)...)
	}
	return out
}

func badTabindex(raw string) bool {
	v := strings.Trim(strings.TrimSpace(raw), `"'`)
	v = strings.TrimSpace(v)
	return v != "0" && v != "-1"
}

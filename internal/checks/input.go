package checks

import (
	"regexp"
	"strings"

	"wals/internal/diag"
	"wals/internal/pattern"
)

const (
	msgEmptyAriaLabel      = `Provide a text within the aria label [aria-label=""]`
	msgLabelFor            = `Provide an aria label [aria-label=""] or a <label for="">`
	msgInputLabel          = `Provide an aria label [aria-label=""]`
	msgEmptyAriaLabelledby = `Provide an id within the aria labelledby [aria-labelledby=""]`
)

var labelTagRe = regexp.MustCompile(`(?i)<label(?:\s(?:"[^"]*"|'[^']*'|[^'">])*)?>`)

// validateInput classifies an input by the first labelling mechanism it
// uses. Exactly one outcome per input.
func validateInput(ctx Context, m pattern.Match) []Finding {
	if typ, _ := attr(m.Text, "type"); strings.EqualFold(strings.TrimSpace(typ), "hidden") {
		return nil
	}
	out := tabindexIn(m)

	var f *Finding
	if label, ok := attr(m.Text, "aria-label"); ok {
		if pattern.Blank(label) {
			f = &Finding{Code: diag.EmptyAriaLabel, Severity: diag.SevInfo, Message: msgEmptyAriaLabel}
		}
	} else if id, ok := attr(m.Text, "id"); ok {
		switch {
		case pattern.Blank(id):
			f = &Finding{Code: diag.MissingInputLabel, Severity: diag.SevWarning, Message: msgInputLabel}
		case !hasLabelFor(ctx.Doc, strings.TrimSpace(id)):
			f = &Finding{Code: diag.MissingLabelFor, Severity: diag.SevWarning, Message: msgLabelFor}
		}
	} else if labelledby, ok := attr(m.Text, "aria-labelledby"); ok {
		if pattern.Blank(labelledby) {
			f = &Finding{Code: diag.EmptyAriaLabelledby, Severity: diag.SevError, Message: msgEmptyAriaLabelledby}
		}
	} else if _, ok := attr(m.Text, "role"); !ok {
		f = &Finding{Code: diag.MissingInputLabel, Severity: diag.SevWarning, Message: msgInputLabel}
	}

	if f == nil {
		return out
	}
	f.Start, f.End = m.Start, m.End
	return append([]Finding{*f}, out...)
}

// hasLabelFor reports whether doc has a <label for="id">.
func hasLabelFor(doc, id string) bool {
	for _, tag := range labelTagRe.FindAllString(doc, -1) {
		if v, ok := attr(tag, "for"); ok && strings.TrimSpace(v) == id {
			return true
		}
	}
	return false
}

package checks

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"wals/internal/diag"
	"wals/internal/pattern"
)

const (
	msgMissingAlt     = `Provide an alt text that describes the image, or alt="" if image is purely decorative`
	msgNonDescriptive = "Alt attribute must be specifically descriptive"
	msgBadAltStart    = `Alt text should not begin with "image of" or similar phrasing`
	msgAltTooLong     = "Alt text is too long"

	// screen readers cut alt text around this length
	maxAltLength = 125
)

var (
	nonDescriptiveAlt = map[string]bool{}
	badAltStartRe     = regexp.MustCompile(`(?i)^(?:an?\s+)?(?:image|picture|logo|icon|graphic)\s+of\b`)
)

func init() {
	for _, w := range []string{"image", "picture", "logo", "icon", "graphic"} {
		nonDescriptiveAlt[w] = true
		nonDescriptiveAlt["a "+w] = true
		nonDescriptiveAlt["an "+w] = true
	}
}

// validateImage applies the alt checks in order; the first hit wins.
// alt="" marks a decorative image and passes.
func validateImage(_ Context, m pattern.Match) []Finding {
	out := tabindexIn(m)
	alt, present := attr(m.Text, "alt")
	if present && alt == "" {
		return out
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(alt), " "))
	var f Finding
	switch {
	case !present || !hasLetters(alt):
		f = finding(m, diag.MissingAlt, diag.SevError, msgMissingAlt)
	case nonDescriptiveAlt[normalized]:
		f = finding(m, diag.NonDescriptiveAlt, diag.SevInfo, msgNonDescriptive)
	case badAltStartRe.MatchString(normalized):
		f = finding(m, diag.BadAltStart, diag.SevInfo, msgBadAltStart)
	case utf8.RuneCountInString(norm.NFC.String(alt)) > maxAltLength:
		f = finding(m, diag.AltTooLong, diag.SevError, msgAltTooLong)
	default:
		return out
	}
	return append([]Finding{f}, out...)
}

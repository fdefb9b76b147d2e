package pattern

import (
	"regexp"
	"strings"
)

// Element returns the element that starts with the start tag m, up to and
// including the first end tag found by closeTag, and the content between the
// two tags. ok is false when the document has no end tag after m.
func Element(doc string, m Match, closeTag *regexp.Regexp) (element, content Match, ok bool) {
	if m.End > len(doc) || m.Start < 0 {
		return Match{}, Match{}, false
	}
	loc := closeTag.FindStringIndex(doc[m.End:])
	if loc == nil {
		return Match{}, Match{}, false
	}
	end := m.End + loc[1]
	element = Match{Construct: m.Construct, Start: m.Start, End: end, Text: doc[m.Start:end]}
	content = Match{Construct: m.Construct, Start: m.End, End: m.End + loc[0], Text: doc[m.End : m.End+loc[0]]}
	return element, content, true
}

var tagRe = regexp.MustCompile(`<` + `(?:"[^"]*"|'[^']*'|[^'">])*` + `>`)

// StripTags removes every tag from s.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// Blank reports whether s has no non-space characters.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

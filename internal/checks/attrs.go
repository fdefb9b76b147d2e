package checks

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"wals/internal/pattern"
)

var attrCache sync.Map // name -> *regexp.Regexp

// attrRe matches name=value inside a tag. The name must not be the tail of a
// longer attribute (data-role, aria-labelledby).
func attrRe(name string) *regexp.Regexp {
	if re, ok := attrCache.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(?:^|[\s"'/])` + regexp.QuoteMeta(name) +
		`\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	actual, _ := attrCache.LoadOrStore(name, re)
	return actual.(*regexp.Regexp)
}

// attr returns the value of the first occurrence of attribute name in tag.
func attr(tag, name string) (value string, present bool) {
	sub := attrRe(name).FindStringSubmatch(tag)
	if sub == nil {
		return "", false
	}
	for _, v := range sub[1:] {
		if v != "" {
			return v, true
		}
	}
	return "", true
}

// hasLetters reports whether s contains at least one letter.
func hasLetters(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

var (
	imgTagRe   = regexp.MustCompile(`(?i)<img(?:[\s/](?:"[^"]*"|'[^']*'|[^'">])*)?>`)
	innerTagRe = regexp.MustCompile(`<[a-zA-Z](?:"[^"]*"|'[^']*'|[^'">])*>`)
	labelAttrs = []string{"aria-label", "title"}
)

// hasAccessibleName reports whether an element with start tag tag and the
// given content is named: by its text, by aria-label, aria-labelledby or
// title on the element, by the alt of a nested image or by an aria-label on
// a nested element.
func hasAccessibleName(tag, content string) bool {
	if !pattern.Blank(pattern.StripTags(content)) {
		return true
	}
	for _, name := range labelAttrs {
		if v, _ := attr(tag, name); hasLetters(v) {
			return true
		}
	}
	if ids, _ := attr(tag, "aria-labelledby"); !pattern.Blank(ids) {
		return true
	}
	for _, img := range imgTagRe.FindAllString(content, -1) {
		if alt, _ := attr(img, "alt"); hasLetters(alt) {
			return true
		}
	}
	for _, inner := range innerTagRe.FindAllString(content, -1) {
		if hidden, _ := attr(inner, "aria-hidden"); strings.EqualFold(hidden, "true") {
			continue
		}
		if label, _ := attr(inner, "aria-label"); hasLetters(label) {
			return true
		}
	}
	return false
}

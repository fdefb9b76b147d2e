package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Library is the compiled combined alternation. It is immutable and safe for
// concurrent use.
type Library struct {
	re      *regexp.Regexp
	entries []Entry
	groups  []int // entries[i] -> index of its named group
}

// Compile joins entries into one case-insensitive alternation with one named
// group per entry.
func Compile(entries []Entry) (*Library, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("pattern: no entries")
	}
	var b strings.Builder
	b.WriteString("(?i)")
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "(?P<%s>%s)", groupName(i), e.Expr)
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("pattern: compile: %w", err)
	}

	lib := &Library{re: re, entries: entries, groups: make([]int, len(entries))}
	for i := range entries {
		lib.groups[i] = re.SubexpIndex(groupName(i))
	}
	return lib, nil
}

func groupName(i int) string {
	return fmt.Sprintf("c%d", i)
}

var defaultLibrary = sync.OnceValue(func() *Library {
	lib, err := Compile(DefaultEntries)
	if err != nil {
		panic(err)
	}
	return lib
})

// Default returns the library built from DefaultEntries.
func Default() *Library {
	return defaultLibrary()
}

// Entries returns the alternatives in priority order.
func (l *Library) Entries() []Entry {
	return l.entries
}

// Scan calls yield for every non-overlapping match, left to right, until
// yield returns false.
func (l *Library) Scan(text string, yield func(Match) bool) {
	for _, loc := range l.re.FindAllStringSubmatchIndex(text, -1) {
		m := Match{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]}
		for i, g := range l.groups {
			if loc[2*g] >= 0 {
				m.Construct = l.entries[i].Construct
				break
			}
		}
		if !yield(m) {
			return
		}
	}
}

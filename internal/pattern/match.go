package pattern

import "regexp"

// Match is a located span of the document. Start and End are absolute byte
// offsets, also for matches narrowed with Sub.
type Match struct {
	Construct Construct
	Start     int
	End       int
	Text      string
}

// Sub locates re inside m and returns the narrower match with absolute
// offsets (parent.Start + sub.Start). When re has a capture group that
// participated, the first group is used; otherwise the whole sub-match.
func (m Match) Sub(re *regexp.Regexp) (Match, bool) {
	loc := re.FindStringSubmatchIndex(m.Text)
	if loc == nil {
		return Match{}, false
	}
	start, end := loc[0], loc[1]
	if len(loc) >= 4 && loc[2] >= 0 {
		start, end = loc[2], loc[3]
	}
	return Match{
		Construct: m.Construct,
		Start:     m.Start + start,
		End:       m.Start + end,
		Text:      m.Text[start:end],
	}, true
}

// SubAll returns every non-overlapping occurrence of re inside m, narrowed
// to the first capture group the same way Sub is.
func (m Match) SubAll(re *regexp.Regexp) []Match {
	locs := re.FindAllStringSubmatchIndex(m.Text, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if len(loc) >= 4 && loc[2] >= 0 {
			start, end = loc[2], loc[3]
		}
		out = append(out, Match{
			Construct: m.Construct,
			Start:     m.Start + start,
			End:       m.Start + end,
			Text:      m.Text[start:end],
		})
	}
	return out
}

// Empty reports whether the match covers no text.
func (m Match) Empty() bool {
	return m.End <= m.Start
}

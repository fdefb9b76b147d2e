// Package rules implements data-driven accessibility rules: a primary
// pattern whose matches run through an ordered filter chain.
package rules

import (
	"regexp"

	"wals/internal/diag"
	"wals/internal/pattern"
)

// Mode selects how a filter treats its sub-pattern.
type Mode uint8

const (
	// ModeContains is satisfied when the sub-pattern occurs in the candidate.
	ModeContains Mode = iota
	// ModeNegative is satisfied when the sub-pattern does not occur.
	ModeNegative
	// ModeReplace narrows the candidate to the sub-pattern's match and is
	// satisfied when the candidate holds nothing but tags and the sub-pattern.
	ModeReplace
)

func (m Mode) String() string {
	switch m {
	case ModeContains:
		return "contains"
	case ModeNegative:
		return "negative"
	case ModeReplace:
		return "replace"
	}
	return "unknown"
}

// Filter is one step of a rule's chain.
type Filter struct {
	Source  string
	Pattern *regexp.Regexp
	Mode    Mode
}

// Rule is a compiled catalogue rule. It is immutable once built.
type Rule struct {
	ID          string
	Category    diag.Category
	Identifiers []string
	Severity    diag.Severity
	Message     string
	Filters     []Filter

	primary *regexp.Regexp
}

// Candidate is the current effective match threaded through a filter chain.
// Offsets are absolute in the document.
type Candidate struct {
	Start, End int
	Text       string
}

func (c Candidate) match() pattern.Match {
	return pattern.Match{Start: c.Start, End: c.End, Text: c.Text}
}

func candidate(m pattern.Match) Candidate {
	return Candidate{Start: m.Start, End: m.End, Text: m.Text}
}

// Scan calls yield for every non-empty match of the rule's primary pattern
// until yield returns false.
func (r *Rule) Scan(doc string, yield func(Candidate) bool) {
	for _, loc := range r.primary.FindAllStringIndex(doc, -1) {
		if loc[1] <= loc[0] {
			continue
		}
		if !yield(Candidate{Start: loc[0], End: loc[1], Text: doc[loc[0]:loc[1]]}) {
			return
		}
	}
}

// Chain runs the filters in order over one primary match. Every satisfied
// step records the candidate current at that point; after the last step the
// latest recorded candidate is returned. A rule without filters is never
// satisfied.
func (r *Rule) Chain(primary Candidate) (Candidate, bool) {
	cur := primary
	var (
		hit       Candidate
		satisfied bool
	)
	for _, f := range r.Filters {
		switch f.Mode {
		case ModeContains:
			if f.Pattern.MatchString(cur.Text) {
				hit, satisfied = cur, true
			}
		case ModeNegative:
			if !f.Pattern.MatchString(cur.Text) {
				hit, satisfied = cur, true
			}
		case ModeReplace:
			emptied := pattern.Blank(pattern.StripTags(f.Pattern.ReplaceAllString(cur.Text, "")))
			if narrow, ok := cur.match().Sub(f.Pattern); ok {
				cur = candidate(narrow)
			}
			if emptied {
				hit, satisfied = cur, true
			}
		}
	}
	return hit, satisfied
}

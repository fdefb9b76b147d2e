package rules

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wals/internal/diag"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func mustRule(t *testing.T, primary string, filters ...Filter) *Rule {
	t.Helper()
	return &Rule{
		ID:       "t",
		Severity: diag.SevWarning,
		Filters:  filters,
		primary:  regexp.MustCompile("(?i)" + primary),
	}
}

func filter(expr string, mode Mode) Filter {
	return Filter{Source: expr, Pattern: regexp.MustCompile("(?i)" + expr), Mode: mode}
}

func scanAll(r *Rule, doc string) []Candidate {
	var out []Candidate
	r.Scan(doc, func(c Candidate) bool {
		if hit, ok := r.Chain(c); ok {
			out = append(out, hit)
		}
		return true
	})
	return out
}

func TestChainContains(t *testing.T) {
	r := mustRule(t, `<object[^>]*>`, filter(`\.swf`, ModeContains))
	doc := `<object data="movie.swf"><object data="clip.mp4">`
	hits := scanAll(r, doc)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Start)
	assert.Equal(t, `<object data="movie.swf">`, hits[0].Text)
}

func TestChainNegative(t *testing.T) {
	r := mustRule(t, `<video[^>]*>`, filter(`\scontrols`, ModeNegative))
	hits := scanAll(r, `<video src="a.mp4" controls><video src="b.mp4">`)
	require.Len(t, hits, 1)
	assert.Equal(t, `<video src="b.mp4">`, hits[0].Text)
}

func TestChainReplaceNarrows(t *testing.T) {
	doc := `<p><button class="x">  <i></i> </button></p>`
	r := mustRule(t, `<button[^>]*>(?:\s|<[^>]*>)*</button>`, filter(`<button[^>]*>`, ModeReplace))
	hits := scanAll(r, doc)
	require.Len(t, hits, 1)
	assert.Equal(t, `<button class="x">`, hits[0].Text)
	assert.Equal(t, 3, hits[0].Start)
	assert.Equal(t, doc[hits[0].Start:hits[0].End], hits[0].Text)
}

func TestChainReplaceUsesGroup(t *testing.T) {
	r := mustRule(t, `<h1>[^<]*</h1>`, filter(`<(h1)>`, ModeReplace))
	hits := scanAll(r, `xx<h1></h1>`)
	require.Len(t, hits, 1)
	assert.Equal(t, "h1", hits[0].Text)
	assert.Equal(t, 3, hits[0].Start)
}

func TestChainReplaceNotEmptied(t *testing.T) {
	r := mustRule(t, `<h1>[^<]*</h1>`, filter(`<h1>`, ModeReplace))
	assert.Empty(t, scanAll(r, `<h1>Title</h1>`))
}

func TestChainSticky(t *testing.T) {
	// the second step fails, but the first one already recorded a match
	r := mustRule(t, `<object[^>]*>`,
		filter(`shockwave`, ModeContains),
		filter(`\.swf`, ModeContains))
	hits := scanAll(r, `<object type="application/x-shockwave-flash">`)
	assert.Len(t, hits, 1)
}

func TestChainNoFilters(t *testing.T) {
	r := mustRule(t, `<b>`)
	assert.Empty(t, scanAll(r, `<b>`))
}

func TestScanStops(t *testing.T) {
	r := mustRule(t, `<b>`, filter(`b`, ModeContains))
	n := 0
	r.Scan(`<b><b><b>`, func(Candidate) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
	  "rules": [
	    {"id": "ok", "type": "missing", "identifier": "<x>", "severity": 1, "message": "m",
	     "filters": [{"identifier": "x", "options": {"negative": true}}]},
	    {"type": "Missing", "identifier": ["<y>"], "severity": 9, "message": "m",
	     "filters": [{"identifier": "y"}]},
	    {"id": "nofilters", "type": "Missing", "identifier": ["<z>"], "severity": 2, "message": "m", "filters": []},
	    {"id": "badre", "type": "Missing", "identifier": ["(<z>"], "severity": 2, "message": "m",
	     "filters": [{"identifier": "z"}]},
	    {"id": "twomodes", "type": "Missing", "identifier": ["<z>"], "severity": 2, "message": "m",
	     "filters": [{"identifier": "z", "options": {"negative": true, "replace": true}}]}
	  ]
	}`)
	cat, err := Parse(data, FormatJSON, "test.json", quiet)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	r := cat.Rules[0]
	assert.Equal(t, "ok", r.ID)
	assert.Equal(t, diag.CatMissing, r.Category)
	assert.Equal(t, diag.SevError, r.Severity)
	assert.Equal(t, ModeNegative, r.Filters[0].Mode)
	assert.Equal(t, "1.0.0", cat.Version.String())

	require.Len(t, cat.Rejected, 4)
	assert.Equal(t, "rule-1", cat.Rejected[0].ID)
	assert.Equal(t, 1, cat.Rejected[0].Index)
	ids := []string{cat.Rejected[1].ID, cat.Rejected[2].ID, cat.Rejected[3].ID}
	assert.Equal(t, []string{"nofilters", "badre", "twomodes"}, ids)
}

func TestParseInvalidDocument(t *testing.T) {
	_, err := Parse([]byte(`{"version": "1.0.0"}`), FormatJSON, "x", quiet)
	assert.ErrorIs(t, err, ErrInvalidCatalogue)

	_, err = Parse([]byte(`not json`), FormatJSON, "x", quiet)
	assert.ErrorIs(t, err, ErrInvalidCatalogue)
}

func TestParseVersionGate(t *testing.T) {
	_, err := Parse([]byte(`{"version": "2.0.0", "rules": []}`), FormatJSON, "x", quiet)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	cat, err := Parse([]byte(`{"version": "1.4.2", "rules": []}`), FormatJSON, "x", quiet)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
version: "1.1.0"
rules:
  - id: marquee
    type: Interaction
    identifier: ['<marquee[^>]*>']
    severity: 3
    message: no marquee
    filters:
      - identifier: marquee
`)
	cat, err := Parse(data, FormatYAML, "x.yaml", quiet)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, diag.SevInfo, cat.Rules[0].Severity)
	assert.Equal(t, ModeContains, cat.Rules[0].Filters[0].Mode)
	hits := scanAll(cat.Rules[0], `<MARQUEE behavior="alternate">`)
	assert.Len(t, hits, 1)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o600))
	cat, err := Load(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, path, cat.Source)
	assert.Equal(t, FormatYAML, FormatForPath(path))
	assert.Equal(t, FormatJSON, FormatForPath("a.json"))
}

func TestDefaultCatalogue(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Empty(t, cat.Rejected)
	assert.GreaterOrEqual(t, cat.Len(), 6)

	byID := map[string]*Rule{}
	for _, r := range cat.Rules {
		byID[r.ID] = r
	}
	cases := []struct {
		id   string
		doc  string
		want int
	}{
		{"media-controls", `<video src="a.mp4">`, 1},
		{"media-controls", `<video src="a.mp4" controls>`, 0},
		{"blink-marquee", `<blink>hi</blink><marquee>x</marquee>`, 2},
		{"flash-object", `<embed src="intro.swf">`, 1},
		{"flash-object", `<embed src="intro.mp4">`, 0},
		{"svg-name", `<svg viewBox="0 0 1 1"><path d="M0"/></svg>`, 1},
		{"svg-name", "<svg>\n<title>Logo</title></svg>", 0},
		{"new-window-link", `<a href="/x" target="_blank">x</a>`, 1},
		{"select-label", `<select name="c">`, 1},
		{"select-label", `<textarea aria-label="Comment">`, 0},
	}
	for _, tc := range cases {
		r, ok := byID[tc.id]
		require.True(t, ok, tc.id)
		assert.Len(t, scanAll(r, tc.doc), tc.want, "%s on %s", tc.id, tc.doc)
	}
}

func TestMerge(t *testing.T) {
	a := &Catalogue{Source: "a", Rules: []*Rule{{ID: "1"}}}
	b := &Catalogue{Source: "b", Rules: []*Rule{{ID: "2"}}, Rejected: []RuleError{{Index: 0, ID: "x", Err: errors.New("e")}}}
	m := Merge(a, nil, b)
	assert.Equal(t, "a,b", m.Source)
	assert.Equal(t, 2, m.Len())
	assert.Len(t, m.Rejected, 1)
	assert.Contains(t, m.Rejected[0].Error(), "rule 0 (x)")
}

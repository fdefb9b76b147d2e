package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wals/internal/contrast"
	"wals/internal/diag"
	"wals/internal/pattern"
	"wals/internal/rules"
	"wals/internal/testkit"
)

func evaluate(t *testing.T, text string, opts Options) []diag.Diagnostic {
	t.Helper()
	res, err := Evaluate(context.Background(), text, opts)
	require.NoError(t, err)
	require.NoError(t, testkit.CheckDiagnostics(text, opts.withDefaults().MaxDiagnostics, res.Diagnostics))
	return res.Diagnostics
}

func TestImageCases(t *testing.T) {
	diags := evaluate(t, `<img src="x.png">`, Options{})
	require.Len(t, diags, 1)
	assert.Equal(t, diag.MissingAlt, diags[0].Code)
	assert.Equal(t, "missing alt", diags[0].Code.Title())
	assert.Equal(t, diag.SevError, diags[0].Severity)

	assert.Empty(t, evaluate(t, `<img src="x.png" alt="">`, Options{}))

	diags = evaluate(t, `<img src="x.png" alt="image of a cat">`, Options{})
	require.Len(t, diags, 1)
	assert.Equal(t, diag.BadAltStart, diags[0].Code)
}

func TestAnchorSpanIsOpeningTag(t *testing.T) {
	text := `<a href="#"></a>`
	diags := evaluate(t, text, Options{})
	require.Len(t, diags, 1)
	assert.Equal(t, diag.MissingAnchorText, diags[0].Code)
	assert.Equal(t, `<a href="#">`, testkit.SpanText(text, diags[0].Primary))
}

func TestNamedButtonsAndHeadings(t *testing.T) {
	for _, text := range []string{
		`<button aria-label="Close"><svg aria-hidden="true"></svg></button>`,
		`<button type="submit"><img src="search.svg" alt="Search"></button>`,
		`<h1><img src="logo.svg" alt="Acme Corp"></h1>`,
		`<a href="/"><img src="logo.svg" alt="Acme Corp"></a>`,
		`<h2 title="Pricing"></h2>`,
	} {
		assert.Empty(t, evaluate(t, text, Options{}), text)
	}

	text := `<button class="x"> </button><h2></h2>`
	diags := evaluate(t, text, Options{})
	require.Len(t, diags, 2)
	assert.Equal(t, diag.MissingButtonText, diags[0].Code)
	assert.Equal(t, `<button class="x">`, testkit.SpanText(text, diags[0].Primary))
	assert.Equal(t, diag.MissingHeadingText, diags[1].Code)
	assert.Equal(t, `<h2>`, testkit.SpanText(text, diags[1].Primary))
	assert.Equal(t, diag.CatMissing, diags[1].Category)
}

func TestInputDemandsLabel(t *testing.T) {
	diags := evaluate(t, `<input id="a">`, Options{})
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "aria-label")
}

func TestContrastSuggestion(t *testing.T) {
	text := `<style>p { color: #777777; background-color: #ffffff; font-size: 16px }</style>`
	diags := evaluate(t, text, Options{})
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.LowContrast, d.Code)
	assert.Equal(t, diag.CatContrast, d.Category)
	assert.Contains(t, d.Message, "Required contrast ratio: 4.5")
	assert.Contains(t, d.Message, "Current contrast ratio: 4.47")
	require.NotEmpty(t, d.Notes)

	fg, err := contrast.ParseHex("#777777")
	require.NoError(t, err)
	bg, err := contrast.ParseHex("#ffffff")
	require.NoError(t, err)
	sides := map[string]bool{}
	for _, n := range d.Notes {
		i := strings.Index(n.Msg, "#")
		require.GreaterOrEqual(t, i, 0, n.Msg)
		c, err := contrast.ParseHex(strings.Trim(n.Msg[i:], `"`))
		require.NoError(t, err, n.Msg)
		switch {
		case strings.Contains(n.Msg, "background"):
			sides["background"] = true
			assert.GreaterOrEqual(t, contrast.Ratio(c, fg), 4.5, n.Msg)
		case strings.Contains(n.Msg, "text"):
			sides["text"] = true
			assert.GreaterOrEqual(t, contrast.Ratio(bg, c), 4.5, n.Msg)
		}
	}
	assert.True(t, sides["background"], "background suggestion")
	assert.True(t, sides["text"], "text color suggestion")

	assert.Empty(t, evaluate(t, text, Options{Level: contrast.LevelA}))
}

func TestCap(t *testing.T) {
	text := strings.Repeat(`<img src="x.png">`, 10)
	res, err := Evaluate(context.Background(), text, Options{MaxDiagnostics: 3})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 3)
	assert.True(t, res.Truncated)

	res, err = Evaluate(context.Background(), text, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 10)
	assert.False(t, res.Truncated)
}

func TestExactCapIsNotTruncated(t *testing.T) {
	text := `<img src=x><img src=y>`
	res, err := Evaluate(context.Background(), text, Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 2)
	assert.False(t, res.Truncated)

	res, err = Evaluate(context.Background(), text+`<img src=z>`, Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 2)
	assert.True(t, res.Truncated)

	// a duplicate past the cap is swallowed, not refused
	dup := `<b>x</b><b>x</b>`
	cat, err := rules.Parse([]byte(`{"rules": [
	  {"id": "one", "type": "Missing", "identifier": "<b>", "severity": 2, "message": "m", "filters": [{"identifier": "b"}]},
	  {"id": "two", "type": "Missing", "identifier": "<b>", "severity": 2, "message": "m", "filters": [{"identifier": "b"}]}
	]}`), rules.FormatJSON, "t", nil)
	require.NoError(t, err)
	res, err = New(Config{Catalogue: cat}).Evaluate(context.Background(), Document{Text: dup}, Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 2)
	assert.False(t, res.Truncated)
}

func TestCapIsSharedAcrossEvaluators(t *testing.T) {
	// one built-in finding, then two catalogue findings
	text := `<img src="a.png"><video src="a.mp4"><video src="b.mp4">`
	res, err := Evaluate(context.Background(), text, Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, diag.MissingAlt, res.Diagnostics[0].Code)
	assert.Equal(t, "media-controls", res.Diagnostics[1].Rule)
}

func TestSemanticExclude(t *testing.T) {
	text := `<div class="x">hi</div><embed src="a.swf">`
	diags := evaluate(t, text, Options{})
	cats := map[diag.Category]int{}
	for _, d := range diags {
		cats[d.Category]++
	}
	assert.Equal(t, 2, cats[diag.CatSemantic])

	assert.Empty(t, evaluate(t, text, Options{SemanticExclude: true}))
}

func TestCatalogueDiagnostic(t *testing.T) {
	text := `<p><video src="a.mp4"></video></p>`
	diags := evaluate(t, text, Options{})
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "media-controls", d.Rule)
	assert.Equal(t, "media-controls", d.Ident())
	assert.Equal(t, diag.CatalogueRule, d.Code)
	assert.Equal(t, diag.CatInteraction, d.Category)
	assert.Equal(t, diag.SevInfo, d.Severity)
	assert.Equal(t, `<video src="a.mp4">`, testkit.SpanText(text, d.Primary))
}

func TestDedupAcrossRules(t *testing.T) {
	data := []byte(`{"rules": [
	  {"id": "one", "type": "Missing", "identifier": "<b>", "severity": 2, "message": "same", "filters": [{"identifier": "b"}]},
	  {"id": "two", "type": "Missing", "identifier": "<b>", "severity": 2, "message": "same", "filters": [{"identifier": "b"}]}
	]}`)
	cat, err := rules.Parse(data, rules.FormatJSON, "t", nil)
	require.NoError(t, err)
	e := New(Config{Catalogue: cat})
	res, err := e.Evaluate(context.Background(), Document{Text: "<b>x</b>"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "one", res.Diagnostics[0].Rule)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Evaluate(ctx, `<img src="x.png">`, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Diagnostics)
}

func TestEvaluatorOrder(t *testing.T) {
	cat, err := rules.Default()
	require.NoError(t, err)
	e := New(Config{Library: pattern.Default(), Catalogue: cat})
	evs := e.Evaluators()
	require.Len(t, evs, 1+cat.Len())
	assert.Equal(t, "constructs", evs[0].Name())
	assert.Equal(t, "rule:"+cat.Rules[0].ID, evs[1].Name())

	assert.Empty(t, New(Config{}).Evaluators())
}

var fragments = []string{
	`<img src="x.png">`, `<img alt="">`, `<a href="#"></a>`, `<a href="/"><img alt="home"></a>`,
	`<div>`, `<span class="btn">`, `<span aria-hidden="true">`, `<input id="q">`, `<input type="hidden">`,
	`<label for="q">Q</label>`, `<html>`, `<html lang="en">`, `<head><meta name="viewport" content="maximum-scale=1"></head>`,
	`<head><title></title></head>`, `<iframe src="x">`, `tabindex="3"`, `<p tabindex="-1">`,
	`<style>.a { color: #999; background: #fff }</style>`, `<button></button>`, `<h1></h1>`,
	`<video src="v">`, `<marquee>`, "\n", "text ", "é", "<", ">", `"`,
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	docGen := gen.SliceOf(gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
		var sb strings.Builder
		for _, i := range idx {
			sb.WriteString(fragments[i])
		}
		return sb.String()
	})

	properties.Property("cap and span ranges hold", prop.ForAll(
		func(text string, max int) bool {
			res, err := Evaluate(context.Background(), text, Options{MaxDiagnostics: max})
			return err == nil && testkit.CheckDiagnostics(text, max, res.Diagnostics) == nil
		},
		docGen, gen.IntRange(1, 8),
	))

	properties.Property("evaluation is idempotent", prop.ForAll(
		func(text string) bool {
			a, errA := Evaluate(context.Background(), text, Options{Level: contrast.LevelAAA})
			b, errB := Evaluate(context.Background(), text, Options{Level: contrast.LevelAAA})
			return errA == nil && errB == nil && assert.ObjectsAreEqual(a, b)
		},
		docGen,
	))

	properties.TestingRun(t)
}

func TestSamplePage(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "pages", "inaccessible.html"))
	require.NoError(t, err)
	diags := evaluate(t, string(data), Options{})

	seen := make(map[diag.Code]bool)
	for _, d := range diags {
		seen[d.Code] = true
	}
	for _, code := range []diag.Code{
		diag.MissingLang, diag.MissingTitle, diag.ViewportMaxScale, diag.LowContrast,
		diag.MissingAnchorText, diag.NonDescriptiveAlt, diag.MissingAlt, diag.BadAltStart,
		diag.SemSpanButton, diag.EmptyAriaLabel, diag.PositiveTabindex, diag.MissingFrameTitle,
		diag.MissingButtonText,
	} {
		assert.True(t, seen[code], "expected %s", code.ID())
	}
	assert.False(t, seen[diag.SemSpanRole], "clickable span should only get the button advice")
}

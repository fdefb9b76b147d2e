package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wals/internal/contrast"
	"wals/internal/diag"
	"wals/internal/pattern"
)

var (
	backgroundRe = regexp.MustCompile(`(?i)(?:^|[{;\s])(background(?:-color)?\s*:[^;}#]*#(?:[0-9a-f]{6}|[0-9a-f]{3})\b)`)
	colorRe      = regexp.MustCompile(`(?i)(?:^|[{;\s])(color\s*:\s*#(?:[0-9a-f]{6}|[0-9a-f]{3})\b)`)
	fontSizeRe   = regexp.MustCompile(`(?i)(?:^|[{;\s])font-size\s*:\s*(\d+(?:\.\d+)?)(px|pt)\b`)
	boldRe       = regexp.MustCompile(`(?i)(?:^|[{;\s])font-weight\s*:\s*(?:bold|bolder|[6-9]00)\b`)
)

// declaration is a color declaration located in the document.
type declaration struct {
	span  pattern.Match
	color contrast.Color
}

// validateStyle checks text contrast of a style rule that declares both a
// background and a text color. A failing pair is reported only when at
// least one side has a suggested replacement.
func validateStyle(ctx Context, m pattern.Match) []Finding {
	bg, ok := findColor(m, backgroundRe)
	if !ok {
		return nil
	}
	fg, ok := findColor(m, colorRe)
	if !ok {
		return nil
	}

	req := contrast.Request{
		Background: bg.color,
		Foreground: fg.color,
		Size:       contrast.DefaultFontSize,
		Unit:       contrast.UnitPx,
		Bold:       boldRe.MatchString(m.Text),
		Level:      ctx.Level,
	}
	if sub := fontSizeRe.FindStringSubmatch(m.Text); sub != nil {
		if size, err := strconv.ParseFloat(sub[1], 64); err == nil {
			req.Size, req.Unit = size, contrast.Unit(strings.ToLower(sub[2]))
		}
	}

	res := contrast.Evaluate(req)
	if res.Passes() || !res.HasSuggestion() {
		return nil
	}

	f := finding(m, diag.LowContrast, diag.SevWarning, contrastMessage(res))
	if res.Background != nil {
		f.Notes = append(f.Notes, Note{Start: bg.span.Start, End: bg.span.End, Msg: suggestion("background", *res.Background)})
	}
	if res.Foreground != nil {
		f.Notes = append(f.Notes, Note{Start: fg.span.Start, End: fg.span.End, Msg: suggestion("text", *res.Foreground)})
	}
	return []Finding{f}
}

func findColor(m pattern.Match, re *regexp.Regexp) (declaration, bool) {
	decl, ok := m.Sub(re)
	if !ok {
		return declaration{}, false
	}
	c, err := contrast.ParseHex(decl.Text[strings.LastIndexByte(decl.Text, '#')+1:])
	if err != nil {
		return declaration{}, false
	}
	return declaration{span: decl, color: c}, true
}

func suggestion(side string, c contrast.Color) string {
	return fmt.Sprintf("Change the %s color to %q", side, c.Hex())
}

func contrastMessage(res contrast.Result) string {
	required := contrast.FormatRatio(res.Required)
	var b strings.Builder
	fmt.Fprintf(&b, "Fails %s\n", res.Level.Criterion())
	fmt.Fprintf(&b, "Level: %s.\n", res.Level)
	fmt.Fprintf(&b, "Required contrast ratio: %s Current contrast ratio: %s\n", required, contrast.FormatRatio(res.Actual))
	fmt.Fprintf(&b, "To meet the minimum contrast ratio of %s:", required)
	if res.Background != nil {
		b.WriteString("\n" + suggestion("background", *res.Background))
	}
	if res.Foreground != nil {
		b.WriteString("\n" + suggestion("text", *res.Foreground))
	}
	return b.String()
}

package checks

import (
	"regexp"
	"strings"

	"wals/internal/diag"
	"wals/internal/pattern"
)

const (
	msgMissingTitle = "Provide a title within the <head> tags"
	msgEmptyTitle   = "Provide a text within the <title> tags"
	msgUserScalable = "Enable pinching to zoom [user-scalable=yes]"
	msgMaxScale     = "Avoid using [maximum-scale=1]"
)

var (
	headEndRe      = regexp.MustCompile(`(?i)</head\s*>|<body[\s>]`)
	titleOpenRe    = regexp.MustCompile(`(?i)<title(?:\s(?:"[^"]*"|'[^']*'|[^'">])*)?>`)
	titleCloseRe   = regexp.MustCompile(`(?i)</title\s*>`)
	metaRe         = regexp.MustCompile(`(?i)<meta(?:[\s/](?:"[^"]*"|'[^']*'|[^'">])*)?>`)
	userScalableRe = regexp.MustCompile(`(?i)user-scalable\s*=\s*(?:yes|1(?:\.0*)?)(?:[^\w.]|$)`)
	maxScaleRe     = regexp.MustCompile(`(?i)maximum-scale\s*=\s*1(?:\.0*)?(?:[^\w.]|$)`)
)

// validateHead checks the document head: the title element and any
// viewport meta tags inside it. The head runs from its start tag to
// </head>, or to <body> or the end of the document when unterminated.
func validateHead(ctx Context, m pattern.Match) []Finding {
	head := headRegion(ctx.Doc, m)

	var out []Finding
	out = append(out, checkTitle(ctx.Doc, m, head)...)
	for _, meta := range head.SubAll(metaRe) {
		out = append(out, checkViewport(meta)...)
	}
	return append(out, tabindexIn(m)...)
}

func headRegion(doc string, m pattern.Match) pattern.Match {
	end := len(doc)
	if loc := headEndRe.FindStringIndex(doc[m.End:]); loc != nil {
		end = m.End + loc[0]
	}
	return pattern.Match{Construct: m.Construct, Start: m.Start, End: end, Text: doc[m.Start:end]}
}

func checkTitle(doc string, headTag, head pattern.Match) []Finding {
	open, ok := head.Sub(titleOpenRe)
	if !ok {
		return []Finding{finding(headTag, diag.MissingTitle, diag.SevError, msgMissingTitle)}
	}
	title, content, ok := pattern.Element(doc, open, titleCloseRe)
	if !ok {
		return nil
	}
	if pattern.Blank(pattern.StripTags(content.Text)) {
		return []Finding{finding(title, diag.MissingTitleText, diag.SevError, msgEmptyTitle)}
	}
	return nil
}

// checkViewport applies both zoom checks independently; both may fire.
func checkViewport(meta pattern.Match) []Finding {
	if name, _ := attr(meta.Text, "name"); !strings.EqualFold(strings.TrimSpace(name), "viewport") {
		return nil
	}
	content, _ := attr(meta.Text, "content")

	var out []Finding
	if !userScalableRe.MatchString(content) {
		out = append(out, finding(meta, diag.ViewportNoZoom, diag.SevInfo, msgUserScalable))
	}
	if maxScaleRe.MatchString(content) {
		out = append(out, finding(meta, diag.ViewportMaxScale, diag.SevInfo, msgMaxScale))
	}
	return out
}

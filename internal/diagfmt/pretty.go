package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wals/internal/diag"
	"wals/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	path   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgBlue, color.Bold),
			diag.SevHint:    color.New(color.FgCyan),
		},
		path:   color.New(color.Bold),
		gutter: color.New(color.FgHiBlack),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	all := []*color.Color{p.path, p.gutter, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <IDENT> [<Category>]: <Message>
//
// затем строки документа с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		lines := strings.Split(d.Message, "\n")

		fmt.Fprintf(w, "%s: %s %s [%s]: %s\n",
			p.path.Sprintf("%s:%d:%d", opts.PathMode.format(f, fs), start.Line, start.Col),
			p.sev[d.Severity].Sprint(d.Severity.String()),
			d.Ident(), d.Category, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "    %s\n", l)
		}
		writeSnippet(w, fs, d.Primary, opts, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				p.path.Sprintf("%s:%d:%d", opts.PathMode.format(fs.Get(n.Span.File), fs), ns.Line, ns.Col),
				n.Msg)
		}
	}
}

// writeSnippet prints the span's first line with Context lines around it and
// underlines the part of the span that falls on that line.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0)) //nolint:gosec // non-negative int8

	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if text == "" && ln > start.Line {
			break
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		stop := len(text)
		if end.Line == start.Line {
			stop = min(int(end.Col)-1, len(text))
		}
		col = min(col, len(text))
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", width, ""),
			indent(text[:col]),
			p.caret.Sprint(underline(text[col:stop])))
	}
}

// indent mirrors prefix as blanks of the same display width, keeping tabs.
func indent(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(s string) string {
	n := runewidth.StringWidth(s)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}

package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"wals/internal/diag"
	"wals/internal/source"
)

// CheckDiagnostics runs the span invariants every evaluation must keep:
// 1) len(diags) <= max when max > 0
// 2) every primary span is non-empty and within the text
// 3) every note span lies within the text
// 4) every diagnostic carries a message and a category
func CheckDiagnostics(text string, max int, diags []diag.Diagnostic) error {
	if max > 0 && len(diags) > max {
		return fmt.Errorf("%d diagnostics exceed the cap of %d", len(diags), max)
	}
	n, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("len text overflow: %w", err)
	}
	for i, d := range diags {
		if err := checkSpan(d.Primary, n, true); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Ident(), err)
		}
		for j, note := range d.Notes {
			if err := checkSpan(note.Span, n, false); err != nil {
				return fmt.Errorf("diagnostic %d (%s) note %d: %w", i, d.Ident(), j, err)
			}
		}
		if d.Message == "" {
			return fmt.Errorf("diagnostic %d (%s) has no message", i, d.Ident())
		}
		if d.Category == "" {
			return fmt.Errorf("diagnostic %d (%s) has no category", i, d.Ident())
		}
	}
	return nil
}

func checkSpan(sp source.Span, n uint32, nonEmpty bool) error {
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	if nonEmpty && sp.End == sp.Start {
		return fmt.Errorf("empty span %v", sp)
	}
	if sp.End > n {
		return fmt.Errorf("span %v ends beyond text length %d", sp, n)
	}
	return nil
}

// SpanText returns the text covered by sp, or "" when sp is out of range.
func SpanText(text string, sp source.Span) string {
	if sp.Start > sp.End || int(sp.End) > len(text) {
		return ""
	}
	return text[sp.Start:sp.End]
}

package lsp

import (
	"strings"
	"unicode/utf8"
)

// applyChanges applies full or incremental content changes in order.
// Out-of-range positions are clamped to the document.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := min(offsetForPosition(text, change.Range.Start), len(text))
		end := min(max(offsetForPosition(text, change.Range.End), start), len(text))
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an LSP position (UTF-16 character) to a byte offset.
// A character past the end of its line maps to the line end.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			return len(text)
		}
		i += nl + 1
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		w := utf16Width(r)
		if units+w > pos.Character {
			break
		}
		units += w
		i += size
	}
	return i
}

package source

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrSpanOutOfRange reports a span that does not fit the document it points into.
var ErrSpanOutOfRange = errors.New("span out of range")

// Span is a half-open byte range [Start, End) inside one document.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan narrows int offsets (as produced by regexp) into a Span.
func NewSpan(file FileID, start, end int) (Span, error) {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return Span{}, fmt.Errorf("span start: %w", err)
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return Span{}, fmt.Errorf("span end: %w", err)
	}
	if e < s {
		return Span{}, fmt.Errorf("%w: end %d before start %d", ErrSpanOutOfRange, e, s)
	}
	return Span{File: file, Start: s, End: e}, nil
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Within reports whether the span is a non-empty sub-span of a document of n bytes.
func (s Span) Within(n uint32) bool {
	return s.Start < s.End && s.End <= n
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves the span n bytes towards the document start.
// A shift past offset 0 leaves the span unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

// ShiftRight rebases a span measured inside a sub-match onto its parent.
func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

package source

import (
	"errors"
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{"shift by 5", Span{File: 1, Start: 10, End: 20}, 5, Span{File: 1, Start: 5, End: 15}},
		{"shift by 0", Span{File: 1, Start: 10, End: 20}, 0, Span{File: 1, Start: 10, End: 20}},
		{"shift equals start", Span{File: 1, Start: 10, End: 20}, 10, Span{File: 1, Start: 0, End: 10}},
		{"shift past start keeps span", Span{File: 1, Start: 10, End: 20}, 15, Span{File: 1, Start: 10, End: 20}},
		{"zero-length span", Span{File: 1, Start: 10, End: 10}, 3, Span{File: 1, Start: 7, End: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpan_ShiftRightRebasesSubMatch(t *testing.T) {
	// sub-match [2,5) inside a parent starting at 40 lands at [42,45)
	sub := Span{File: 3, Start: 2, End: 5}
	got := sub.ShiftRight(40)
	if got != (Span{File: 3, Start: 42, End: 45}) {
		t.Fatalf("ShiftRight() = %+v", got)
	}
	if got.Len() != sub.Len() {
		t.Errorf("ShiftRight changed length: %d != %d", got.Len(), sub.Len())
	}
}

func TestSpan_WithinAndContains(t *testing.T) {
	parent := Span{Start: 10, End: 30}
	if !parent.Within(30) {
		t.Error("span ending at document length must be within")
	}
	if parent.Within(29) {
		t.Error("span past document end must not be within")
	}
	if (Span{Start: 4, End: 4}).Within(10) {
		t.Error("empty span must not be within")
	}
	if !parent.Contains(Span{Start: 12, End: 30}) {
		t.Error("expected parent to contain tail span")
	}
	if parent.Contains(Span{Start: 9, End: 12}) {
		t.Error("span starting before parent must not be contained")
	}
	if parent.Contains(Span{File: 1, Start: 12, End: 14}) {
		t.Error("span from another file must not be contained")
	}
}

func TestSpan_Cover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	if got := a.Cover(Span{File: 1, Start: 5, End: 12}); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover() = %+v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 50}); got != a {
		t.Errorf("Cover() across files = %+v, want %+v", got, a)
	}
}

func TestNewSpan(t *testing.T) {
	s, err := NewSpan(2, 3, 9)
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	if s != (Span{File: 2, Start: 3, End: 9}) {
		t.Errorf("NewSpan = %+v", s)
	}
	if _, err := NewSpan(0, 5, 4); !errors.Is(err, ErrSpanOutOfRange) {
		t.Errorf("expected ErrSpanOutOfRange, got %v", err)
	}
	if _, err := NewSpan(0, -1, 4); err == nil {
		t.Error("expected an error for a negative start")
	}
}

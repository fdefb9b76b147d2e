package lsp

import (
	"testing"

	"wals/internal/source"
)

func TestPositionForOffsetUTF16(t *testing.T) {
	text := "ab\n🙂x\né"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.html", []byte(text)))

	cases := []struct {
		off  uint32
		want position
	}{
		{0, position{0, 0}},
		{2, position{0, 2}},
		{3, position{1, 0}},
		{7, position{1, 2}}, // после 🙂
		{8, position{1, 3}},
		{9, position{2, 0}},
		{11, position{2, 1}},
		{100, position{2, 1}},
	}
	for _, tc := range cases {
		if got := positionForOffsetInFile(file, tc.off); got != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestOffsetForPositionRoundTrip(t *testing.T) {
	text := "ab\n🙂x\né"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.html", []byte(text)))
	for _, off := range []uint32{0, 1, 2, 3, 7, 8, 9, 11} {
		pos := positionForOffsetInFile(file, off)
		if got := offsetForPosition(text, pos); uint32(got) != off { //nolint:gosec // small test offsets
			t.Errorf("offset %d -> %+v -> %d", off, pos, got)
		}
	}
}

func TestApplyChanges(t *testing.T) {
	text := "one\ntwo\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{1, 0}, End: position{1, 3}}, Text: "2"},
		{Range: &lspRange{Start: position{9, 0}, End: position{9, 9}}, Text: "tail"},
	})
	if got != "one\n2\ntail" {
		t.Fatalf("applyChanges = %q", got)
	}
	if got := applyChanges(text, []textDocumentContentChangeEvent{{Text: "all"}}); got != "all" {
		t.Fatalf("full sync = %q", got)
	}
}

func TestCanonicalURI(t *testing.T) {
	if got := canonicalURI("untitled:Untitled-1"); got != "untitled:Untitled-1" {
		t.Fatalf("untitled changed: %q", got)
	}
	a := canonicalURI("file:///tmp/a%20b/page.html")
	b := canonicalURI(pathToURI("/tmp/a b/page.html"))
	if a != b {
		t.Fatalf("%q != %q", a, b)
	}
}

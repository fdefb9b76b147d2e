package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("index.html", []byte("<html>"), 0)
	id2 := fs.Add("index.html", []byte("<html lang=\"en\">"), 0)
	if id1 == id2 {
		t.Fatalf("expected a new FileID for the second version, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("index.html")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "<html>" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
	if f, ok := fs.GetByPath("./index.html"); !ok || f.ID != id2 {
		t.Errorf("GetByPath did not normalize the path")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("buffer.html", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, expected)
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc.html", []byte("<p>\n  <img src=\"x\">\nα<a>"))

	tests := []struct {
		name       string
		span       Span
		start, end LineCol
	}{
		{"first line", Span{File: id, Start: 0, End: 3}, LineCol{1, 1}, LineCol{1, 4}},
		{"second line", Span{File: id, Start: 6, End: 19}, LineCol{2, 3}, LineCol{2, 16}},
		{"newline offset ends line", Span{File: id, Start: 3, End: 3}, LineCol{1, 4}, LineCol{1, 4}},
		// α занимает 2 байта, колонки байтовые
		{"multibyte prefix", Span{File: id, Start: 22, End: 25}, LineCol{3, 3}, LineCol{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start || end != tt.end {
				t.Errorf("Resolve(%v) = %+v-%+v, want %+v-%+v", tt.span, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc.html", []byte("<head>\n<title>x</title>\n</head>"))
	file := fs.Get(id)

	if got := file.GetLine(2); got != "<title>x</title>" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := file.GetLine(3); got != "</head>" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := file.GetLine(0); got != "" {
		t.Errorf("GetLine(0) = %q, want empty", got)
	}
	if got := file.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	if f := fs.Get(fs.AddVirtual("empty.html", []byte{})); len(f.LineIdx) != 0 {
		t.Errorf("expected empty LineIdx for empty file, got %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("flat.html", []byte("<div>"))); len(f.LineIdx) != 0 {
		t.Errorf("expected empty LineIdx for file without newlines, got %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("nl.html", []byte("\n"))); len(f.LineIdx) != 1 || f.LineIdx[0] != 0 {
		t.Errorf("expected LineIdx [0], got %v", f.LineIdx)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadNormalizes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		flag    FileFlags
	}{
		{"plain", "a\nb\n", "a\nb\n", 0},
		{"bom", "\xEF\xBB\xBFa\nb\n", "a\nb\n", FileHadBOM},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"lone cr kept", "a\rb", "a\rb", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			id, err := fs.Load(writeTemp(t, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			file := fs.Get(id)
			if string(file.Content) != tt.want {
				t.Errorf("content = %q, want %q", file.Content, tt.want)
			}
			if tt.flag != 0 && file.Flags&tt.flag == 0 {
				t.Errorf("expected flag %b in %b", tt.flag, file.Flags)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if fs.Len() != 0 {
		t.Errorf("failed Load must not add a file")
	}
}

package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"wals/internal/diag"
	"wals/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t, "index.html", "<p>\n  <img src=\"x.png\">\n</p>\n")

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Level != 1 {
		t.Errorf("Expected severity=ERROR level=1, got %s %d", d.Severity, d.Level)
	}
	if d.Code != "MIS2001" || d.Category != "Missing" {
		t.Errorf("Expected code=MIS2001 category=Missing, got %s %s", d.Code, d.Category)
	}
	loc := d.Location
	if loc.File != "index.html" || loc.StartByte != 6 || loc.EndByte != 23 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 3 || loc.EndLine != 2 || loc.EndCol != 20 {
		t.Errorf("unexpected positions %+v", loc)
	}
	if len(d.Notes) != 1 {
		t.Errorf("Expected 1 note, got %d", len(d.Notes))
	}
}

// TestJSONWithoutPositions проверяет, что line/col опускаются
func TestJSONWithoutPositions(t *testing.T) {
	bag, fs := sampleBag(t, "index.html", "<img>")

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions must be omitted, got %+v", loc)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Errorf("notes must be omitted without IncludeNotes")
	}
}

// TestJSONMax проверяет обрезку вывода
func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.html", []byte("<img><img><img>"))
	bag := diag.NewBag(10)
	for i := range 3 {
		start := uint32(i * 5)
		bag.Add(diag.New(diag.SevError, diag.MissingAlt, source.Span{File: id, Start: start, End: start + 5}, "m"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Errorf("Expected count=2 with Max=2, got %d", out.Count)
	}
}

// TestJSONCatalogueRule проверяет поле rule
func TestJSONCatalogueRule(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.html", []byte("<video>"))
	bag := diag.NewBag(1)
	d := diag.New(diag.SevInfo, diag.CatalogueRule, source.Span{File: id, Start: 0, End: 7}, "controls")
	d.Rule = "media-controls"
	d.Category = diag.CatInteraction
	bag.Add(d)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	got := out.Diagnostics[0]
	if got.Rule != "media-controls" || got.Category != "Interaction" || got.Level != 3 {
		t.Errorf("unexpected catalogue diagnostic %+v", got)
	}
}

package lsp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wals/internal/contrast"
)

func TestSetupForUsesProjectConfig(t *testing.T) {
	root := t.TempDir()
	conf := "[diagnostics]\nlevel = \"AAA\"\nmax = 7\n"
	if err := os.WriteFile(filepath.Join(root, "wals.toml"), []byte(conf), 0o644); err != nil {
		t.Fatalf("write wals.toml: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s := NewServer(bytes.NewReader(nil), &bytes.Buffer{}, ServerOptions{Debounce: time.Hour})
	setup, err := s.setupFor(filepath.Join(nested, "page.html"))
	if err != nil {
		t.Fatal(err)
	}
	if setup.Eval.Level != contrast.LevelAAA || setup.Eval.MaxDiagnostics != 7 {
		t.Fatalf("project options not applied: %+v", setup.Eval)
	}
	again, err := s.setupFor(filepath.Join(root, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if again != setup {
		t.Fatal("setup should be cached per project root")
	}
}

func TestSetupForFallsBackToDefaults(t *testing.T) {
	s := NewServer(bytes.NewReader(nil), &bytes.Buffer{}, ServerOptions{Debounce: time.Hour})
	setup, err := s.setupFor(filepath.Join(t.TempDir(), "loose.html"))
	if err != nil {
		t.Fatal(err)
	}
	if setup.Eval.Level != contrast.LevelAA || setup.Eval.MaxDiagnostics != 100 {
		t.Fatalf("unexpected defaults: %+v", setup.Eval)
	}
}

func TestSetupForReportsBadConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "wals.toml"), []byte("[diagnostics]\nmax = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewServer(bytes.NewReader(nil), &bytes.Buffer{}, ServerOptions{Debounce: time.Hour})
	if _, err := s.setupFor(filepath.Join(root, "x.html")); err == nil {
		t.Fatal("expected config error")
	}
}

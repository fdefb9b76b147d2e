package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wals/internal/contrast"
	"wals/internal/project"
)

// resetFlags restores global flag state touched by a test.
func resetFlags(t *testing.T, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, n := range names {
			f := rootCmd.PersistentFlags().Lookup(n)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
}

func TestParseFontSize(t *testing.T) {
	cases := []struct {
		in   string
		size float64
		unit contrast.Unit
		ok   bool
	}{
		{"16", 16, contrast.UnitPx, true},
		{"18px", 18, contrast.UnitPx, true},
		{" 12PT ", 12, contrast.UnitPt, true},
		{"0px", 0, "", false},
		{"big", 0, "", false},
	}
	for _, tc := range cases {
		size, unit, err := parseFontSize(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: err = %v", tc.in, err)
		}
		if tc.ok && (size != tc.size || unit != tc.unit) {
			t.Fatalf("%q: got %v %v", tc.in, size, unit)
		}
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	resetFlags(t, "level", "max-diagnostics", "semantic-exclude")
	dir := t.TempDir()
	conf := "[diagnostics]\nlevel = \"A\"\nmax = 5\n"
	if err := os.WriteFile(filepath.Join(dir, project.ConfigName), []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(diagCmd, dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Level != "A" || cfg.Diagnostics.Max != 5 {
		t.Fatalf("file values not loaded: %+v", cfg.Diagnostics)
	}

	if err := rootCmd.PersistentFlags().Set("level", "AAA"); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.PersistentFlags().Set("semantic-exclude", "true"); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(diagCmd, dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics.Level != "AAA" || cfg.Diagnostics.Max != 5 || !cfg.Diagnostics.SemanticExclude {
		t.Fatalf("flags not applied: %+v", cfg.Diagnostics)
	}

	if err := rootCmd.PersistentFlags().Set("max-diagnostics", "-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(diagCmd, dir); err == nil {
		t.Fatal("expected error for negative cap")
	}
}

func TestInitWritesConfigOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	var out bytes.Buffer
	initCmd.SetOut(&out)
	t.Cleanup(func() { initCmd.SetOut(nil) })

	if err := runInit(initCmd, []string{dir}); err != nil {
		t.Fatal(err)
	}
	cfg, err := project.LoadConfig(filepath.Join(dir, project.ConfigName))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Diagnostics.Max != 100 || cfg.Diagnostics.Level != "AA" {
		t.Fatalf("unexpected defaults: %+v", cfg.Diagnostics)
	}
	if err := runInit(initCmd, []string{dir}); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init: %v", err)
	}
}

func TestRenderContrastSuggestions(t *testing.T) {
	fg, _ := contrast.ParseHex("#777777")
	bg, _ := contrast.ParseHex("#ffffff")
	res := contrast.Evaluate(contrast.Request{Foreground: fg, Background: bg, Size: 16, Unit: contrast.UnitPx, Level: contrast.LevelAA})
	var out bytes.Buffer
	renderContrast(&out, fg, bg, res)
	text := out.String()
	for _, want := range []string{"4.47:1", "4.5:1", "fail", "Text fix", "SC 1.4.3"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestDiagnoseExitStatus(t *testing.T) {
	resetFlags(t, "color")
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.html")
	if err := os.WriteFile(bad, []byte(`<img src="a.png">`), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"diag", "--format", "short", "--ui", "off", bad})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	if !strings.Contains(out.String(), ":1:1: error") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestDiagnoseGoldenWithProfiles(t *testing.T) {
	resetFlags(t, "color", "cpu-profile", "mem-profile")
	dir := t.TempDir()
	doc := filepath.Join(dir, "page.html")
	if err := os.WriteFile(doc, []byte("<a href=\"#\"></a>\n<img src=\"a.png\">\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"diag", "--format", "golden", "--ui", "off", "--cpu-profile", cpu, "--mem-profile", mem, doc})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 golden lines, got:\n%s", out.String())
	}
	if !strings.Contains(lines[0], ":1:1 ") || !strings.Contains(lines[1], ":2:1 ") {
		t.Fatalf("golden lines not sorted by position:\n%s", out.String())
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("profile %s not written: %v", p, err)
		}
	}
}

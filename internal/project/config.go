package project

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors wals.toml.
type Config struct {
	Diagnostics Diagnostics `toml:"diagnostics"`
	Rules       Rules       `toml:"rules"`
	Files       Files       `toml:"files"`

	// Root is the directory of the file the config was loaded from; empty for defaults.
	Root string `toml:"-"`
}

type Diagnostics struct {
	Max             int    `toml:"max"`
	Level           string `toml:"level"`
	SemanticExclude bool   `toml:"semantic_exclude"`
}

type Rules struct {
	Builtin          bool   `toml:"builtin"`
	Catalogue        string `toml:"catalogue"`
	DefaultCatalogue bool   `toml:"default_catalogue"`
}

type Files struct {
	Extensions []string `toml:"extensions"`
}

// Default returns the settings used when no wals.toml exists.
func Default() Config {
	return Config{
		Diagnostics: Diagnostics{Max: 100, Level: "AA"},
		Rules:       Rules{Builtin: true, DefaultCatalogue: true},
		Files:       Files{Extensions: []string{".html", ".htm"}},
	}
}

// LoadConfig parses path. Keys absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg := Default()
	cfg.Root = filepath.Dir(path)
	if meta.IsDefined("diagnostics", "max") {
		if file.Diagnostics.Max <= 0 {
			return Config{}, fmt.Errorf("%s: [diagnostics].max must be positive", path)
		}
		cfg.Diagnostics.Max = file.Diagnostics.Max
	}
	if meta.IsDefined("diagnostics", "level") {
		cfg.Diagnostics.Level = strings.TrimSpace(file.Diagnostics.Level)
	}
	if meta.IsDefined("diagnostics", "semantic_exclude") {
		cfg.Diagnostics.SemanticExclude = file.Diagnostics.SemanticExclude
	}
	if meta.IsDefined("rules", "builtin") {
		cfg.Rules.Builtin = file.Rules.Builtin
	}
	if meta.IsDefined("rules", "catalogue") {
		cfg.Rules.Catalogue = strings.TrimSpace(file.Rules.Catalogue)
	}
	if meta.IsDefined("rules", "default_catalogue") {
		cfg.Rules.DefaultCatalogue = file.Rules.DefaultCatalogue
	}
	if meta.IsDefined("files", "extensions") {
		cfg.Files.Extensions = normalizeExtensions(file.Files.Extensions)
	}
	return cfg, nil
}

// Discover loads the wals.toml found above startDir, or Default when none exists.
func Discover(startDir string) (cfg Config, found bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadConfig(path)
	return cfg, err == nil, err
}

// CataloguePath resolves [rules].catalogue against the config's directory.
func (c Config) CataloguePath() string {
	p := c.Rules.Catalogue
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// Matches reports whether path has one of the configured extensions.
func (c Config) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Files.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

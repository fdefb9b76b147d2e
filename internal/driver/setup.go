package driver

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"wals/internal/contrast"
	"wals/internal/engine"
	"wals/internal/pattern"
	"wals/internal/project"
	"wals/internal/rules"
	"wals/internal/version"
)

// Setup is everything a run needs besides the files themselves.
type Setup struct {
	Engine    *engine.Engine
	Catalogue *rules.Catalogue
	Eval      engine.Options
	// Salt identifies the active rule set for the disk cache.
	Salt string
}

// NewSetup builds an engine from cfg. extra names an additional catalogue
// file (from --rules) loaded after the configured ones.
func NewSetup(cfg project.Config, extra string, logger *slog.Logger) (*Setup, error) {
	level, err := contrast.ParseLevel(cfg.Diagnostics.Level)
	if err != nil {
		return nil, err
	}

	salt := []string{fmt.Sprintf("builtin=%t", cfg.Rules.Builtin)}
	var cats []*rules.Catalogue
	if cfg.Rules.DefaultCatalogue {
		def, err := rules.Default()
		if err != nil {
			return nil, fmt.Errorf("default catalogue: %w", err)
		}
		cats = append(cats, def)
		salt = append(salt, def.Source+"@"+version.Version)
	}
	for _, p := range []string{cfg.CataloguePath(), extra} {
		if p == "" {
			continue
		}
		// #nosec G304 -- catalogue path comes from the user
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		cat, err := rules.Parse(data, rules.FormatForPath(p), p, logger)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
		// ключ кэша меняется при правке каталога
		sum := project.HashString(string(data))
		salt = append(salt, p+"@"+hex.EncodeToString(sum[:8]))
	}
	cat := rules.Merge(cats...)

	var lib *pattern.Library
	if cfg.Rules.Builtin {
		lib = pattern.Default()
	}
	return &Setup{
		Engine:    engine.New(engine.Config{Library: lib, Catalogue: cat}),
		Catalogue: cat,
		Eval: engine.Options{
			MaxDiagnostics:  cfg.Diagnostics.Max,
			Level:           level,
			SemanticExclude: cfg.Diagnostics.SemanticExclude,
		},
		Salt: strings.Join(salt, ";"),
	}, nil
}

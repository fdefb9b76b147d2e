package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wals/internal/driver"
	"wals/internal/project"
)

// loadConfig finds wals.toml (or reads --config) and applies the global flags
// on top of it.
func loadConfig(cmd *cobra.Command, startDir string) (project.Config, error) {
	flags := cmd.Root().PersistentFlags()
	explicit, err := flags.GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	var cfg project.Config
	if explicit != "" {
		cfg, err = project.LoadConfig(explicit)
	} else {
		cfg, _, err = project.Discover(startDir)
	}
	if err != nil {
		return project.Config{}, err
	}

	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return project.Config{}, err
		}
		if n <= 0 {
			return project.Config{}, fmt.Errorf("--max-diagnostics must be positive")
		}
		cfg.Diagnostics.Max = n
	}
	if flags.Changed("level") {
		if cfg.Diagnostics.Level, err = flags.GetString("level"); err != nil {
			return project.Config{}, err
		}
	}
	if flags.Changed("semantic-exclude") {
		if cfg.Diagnostics.SemanticExclude, err = flags.GetBool("semantic-exclude"); err != nil {
			return project.Config{}, err
		}
	}
	return cfg, nil
}

// loadSetup builds the engine for a run rooted at startDir.
func loadSetup(cmd *cobra.Command, startDir string) (*driver.Setup, project.Config, error) {
	cfg, err := loadConfig(cmd, startDir)
	if err != nil {
		return nil, project.Config{}, err
	}
	extra, err := cmd.Root().PersistentFlags().GetString("rules")
	if err != nil {
		return nil, project.Config{}, err
	}
	setup, err := driver.NewSetup(cfg, extra, slog.Default())
	if err != nil {
		return nil, project.Config{}, err
	}
	return setup, cfg, nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wals/internal/prof"
)

func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPUPath, err = flags.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if cfg.MemPath, err = flags.GetString("mem-profile"); err != nil {
		return nil, err
	}
	if cfg.TracePath, err = flags.GetString("runtime-trace"); err != nil {
		return nil, err
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			slog.Warn("profiling", "err", err)
		}
	}, nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// setupLogging installs the default slog logger. WALS_LOG_FORMAT=json selects
// the JSON handler; WALS_LOG_LEVEL sets the minimum level (default warn).
func setupLogging(w io.Writer) error {
	level := slog.LevelWarn
	if raw := strings.TrimSpace(os.Getenv("WALS_LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return fmt.Errorf("WALS_LOG_LEVEL: %w", err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WALS_LOG_FORMAT"))) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("WALS_LOG_FORMAT must be text or json")
	}
	slog.SetDefault(slog.New(h))
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wals/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default wals.toml",
	Long: `Create a wals.toml with the default settings in [dir] (the current
directory when omitted). The directory is created if needed; an existing
wals.toml is never overwritten.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", target, err)
	}

	path := filepath.Join(target, project.ConfigName)
	// O_EXCL: существующий файл не трогаем
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G302 G304 -- config file is meant to be shared
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("already initialized: %s exists", path)
		}
		return err
	}
	fmt.Fprintln(f, "# wals accessibility checker settings")
	if err := project.Default().Write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", relPath(path))
	return nil
}

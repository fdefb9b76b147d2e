package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wals/internal/driver"
	"wals/internal/lsp"
	"wals/internal/project"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the accessibility language server over stdio",
	Long: `Run a language server that publishes accessibility diagnostics for open
HTML documents. Client settings live under "webAccessibility":
maxNumberOfProblems, semanticExclude and conformanceLevel.`,
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-validating a changed document (default 300ms)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	extra, err := cmd.Root().PersistentFlags().GetString("rules")
	if err != nil {
		return err
	}
	logger := slog.Default()
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce: debounce,
		Logger:   logger,
		Setup: func(cfg project.Config) (*driver.Setup, error) {
			return driver.NewSetup(cfg, extra, logger)
		},
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	}
	return nil
}

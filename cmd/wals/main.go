package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wals/internal/version"
)

// errFailed marks a run that already reported its outcome and only needs a
// non-zero exit status.
var errFailed = errors.New("diagnostics reported errors")

var rootCmd = &cobra.Command{
	Use:   "wals",
	Short: "Web accessibility linter and language server",
	Long: `wals checks HTML documents against WCAG-oriented accessibility rules:
missing text alternatives, labels and titles, misused semantics, keyboard
traps and insufficient color contrast.`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(contrastCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per document (0 = wals.toml or 100)")
	flags.String("level", "", "WCAG conformance level A|AA|AAA (default from wals.toml or AA)")
	flags.Bool("semantic-exclude", false, "drop findings of category Semantic")
	flags.String("rules", "", "additional rule catalogue (JSON or YAML)")
	flags.String("config", "", "path to wals.toml (default: search upwards from the target)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 0, "ring buffer capacity for --trace-mode ring|both")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file on exit")
	flags.String("runtime-trace", "", "write Go runtime trace to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "wals: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

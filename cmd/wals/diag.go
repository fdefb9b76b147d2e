package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wals/internal/diag"
	"wals/internal/diagfmt"
	"wals/internal/driver"
	"wals/internal/trace"
	"wals/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.html|directory]...",
	Short: "Check HTML files for accessibility issues",
	Long: `Run the accessibility checks over HTML files, or over every matching file
below the given directories (extensions from wals.toml, .html and .htm by default).
Exits with status 1 when any error-severity diagnostic is reported.`,
	SilenceUsage: true,
	RunE:         runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|golden|json|sarif)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("cache", false, "reuse results for unchanged files from the disk cache")
	diagCmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	diagCmd.Flags().Int8("context", 0, "lines of source context around each snippet (pretty)")
	diagCmd.Flags().String("ui", "auto", "progress UI for multi-file runs (auto|on|off)")
	diagCmd.Flags().Bool("timings", false, "print per-file timings to stderr")
}

type diagFlags struct {
	format     string
	jobs       int
	cache      bool
	clearCache bool
	withNotes  bool
	pathMode   diagfmt.PathMode
	context    int8
	ui         uiMode
	timings    bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var (
		f   diagFlags
		err error
	)
	fl := cmd.Flags()
	if f.format, err = fl.GetString("format"); err != nil {
		return f, err
	}
	switch f.format {
	case "pretty", "short", "golden", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.jobs, err = fl.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.cache, err = fl.GetBool("cache"); err != nil {
		return f, err
	}
	if f.clearCache, err = fl.GetBool("clear-cache"); err != nil {
		return f, err
	}
	if f.withNotes, err = fl.GetBool("with-notes"); err != nil {
		return f, err
	}
	pm, err := fl.GetString("path-mode")
	if err != nil {
		return f, err
	}
	f.pathMode = diagfmt.ParsePathMode(pm)
	if f.context, err = fl.GetInt8("context"); err != nil {
		return f, err
	}
	ui, err := fl.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(ui); err != nil {
		return f, err
	}
	if f.timings, err = fl.GetBool("timings"); err != nil {
		return f, err
	}
	return f, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	setup, cfg, err := loadSetup(cmd, args[0])
	if err != nil {
		return err
	}
	for _, rej := range setup.Catalogue.Rejected {
		slog.Warn("catalogue rule skipped", "err", rej.Error())
	}

	var cache *driver.DiskCache
	if flags.cache || flags.clearCache {
		if cache, err = driver.OpenDiskCache("wals"); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if flags.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		if !flags.cache {
			cache = nil
		}
	}

	opts := driver.Options{
		Engine:  setup.Engine,
		Eval:    setup.Eval,
		Jobs:    flags.jobs,
		Cache:   cache,
		Salt:    setup.Salt,
		Timings: flags.timings,
		Match:   cfg.Matches,
		Logger:  slog.Default(),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "diag")
	defer span.End("")

	var res *driver.Result
	files, err := driver.ListFiles(args, cfg.Matches)
	if err != nil {
		return err
	}
	if len(files) > 1 && flags.format == "pretty" && shouldUseTUI(flags.ui) {
		res, err = runDiagnoseWithUI(ctx, "wals diag", files, args, opts)
	} else {
		res, err = driver.Diagnose(ctx, args, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResults(cmd, out, res, flags); err != nil {
		return err
	}

	failed := res.Failed()
	for _, f := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Path, f.Err)
	}
	if flags.timings {
		printTimings(cmd.ErrOrStderr(), res)
	}
	if res.HasErrors() || len(failed) > 0 {
		return errFailed
	}
	return nil
}

func writeResults(cmd *cobra.Command, out io.Writer, res *driver.Result, flags diagFlags) error {
	total := 0
	for _, f := range res.Files {
		if f.Bag != nil {
			total += f.Bag.Len()
		}
	}
	bag := diag.NewBag(total)
	for _, f := range res.Files {
		bag.Merge(f.Bag)
	}
	bag.Sort()

	if wd, err := os.Getwd(); err == nil {
		res.FileSet.SetBaseDir(wd)
	}

	switch flags.format {
	case "json":
		return diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         flags.pathMode,
			IncludeNotes:     flags.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "wals",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case "short":
		diagfmt.Short(out, bag, res.FileSet, flags.pathMode)
		return nil
	case "golden":
		// стабильный вид для сравнения с эталонными файлами
		if text := diag.FormatGoldenDiagnostics(bag.Items(), res.FileSet, flags.withNotes); text != "" {
			fmt.Fprintln(out, text)
		}
		return nil
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     color,
		Context:   flags.context,
		PathMode:  flags.pathMode,
		ShowNotes: flags.withNotes,
	})
	if bag.Len() > 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, summaryLine(res, bag))
	return nil
}

func summaryLine(res *driver.Result, bag *diag.Bag) string {
	counts := make(map[diag.Severity]int)
	for _, d := range bag.Items() {
		counts[d.Severity]++
	}
	parts := []string{fmt.Sprintf("%d file(s)", len(res.Files))}
	for _, sev := range []diag.Severity{diag.SevError, diag.SevWarning, diag.SevInfo, diag.SevHint} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(sev.String())))
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "no issues")
	}
	truncated := 0
	for _, f := range res.Files {
		if f.Truncated {
			truncated++
		}
	}
	if truncated > 0 {
		parts = append(parts, fmt.Sprintf("%d truncated at the diagnostic cap", truncated))
	}
	return strings.Join(parts, ", ")
}

func relPath(p string) string {
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, p); err == nil && !strings.HasPrefix(r, "..") {
			return r
		}
	}
	return p
}

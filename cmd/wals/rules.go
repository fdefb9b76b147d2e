package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"wals/internal/checks"
	"wals/internal/diag"
	"wals/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [dir]",
	Short: "List the built-in checks and catalogue rules",
	Long: `List the built-in construct checks and the data-driven catalogue rules
that a run in [dir] would use, and report catalogue rules that were rejected.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	setup, cfg, err := loadSetup(cmd, dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cfg.Rules.Builtin {
		fmt.Fprintln(out, "Built-in checks:")
		renderBuiltins(out)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Catalogue rules (%s):\n", setup.Catalogue.Source)
	renderCatalogue(out, setup.Catalogue)
	if n := len(setup.Catalogue.Rejected); n > 0 {
		fmt.Fprintf(out, "\nRejected (%d):\n", n)
		for _, rej := range setup.Catalogue.Rejected {
			fmt.Fprintf(out, "  %s\n", rej.Error())
		}
	}
	return nil
}

func renderBuiltins(w io.Writer) {
	byCode := make(map[diag.Code][]string)
	for construct, codes := range checks.Describe() {
		for _, c := range codes {
			byCode[c] = append(byCode[c], construct.String())
		}
	}
	codes := make([]diag.Code, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "Category", "Check", "Constructs"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	for _, c := range codes {
		constructs := byCode[c]
		slices.Sort(constructs)
		table.Append([]string{c.ID(), string(c.Category()), c.Title(), strings.Join(constructs, ", ")})
	}
	table.Render()
}

func renderCatalogue(w io.Writer, cat *rules.Catalogue) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Category", "Severity", "Filters", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, r := range cat.Rules {
		modes := make([]string, len(r.Filters))
		for i, f := range r.Filters {
			modes[i] = f.Mode.String()
		}
		table.Append([]string{
			r.ID,
			string(r.Category),
			strconv.Itoa(r.Severity.Level()),
			strings.Join(modes, ","),
			firstLine(r.Message),
		})
	}
	table.SetFooter([]string{"", "", "", "total", strconv.Itoa(cat.Len())})
	table.Render()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

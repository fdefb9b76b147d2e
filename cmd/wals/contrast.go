package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"wals/internal/contrast"
)

var contrastCmd = &cobra.Command{
	Use:   "contrast <foreground> <background>",
	Short: "Check the contrast ratio of a color pair",
	Long: `Measure the WCAG contrast ratio between a text color and a background
color (hex, #rgb or #rrggbb) and, when the pair fails, suggest the closest
passing replacement for each side.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runContrast,
}

func init() {
	contrastCmd.Flags().String("size", "18px", "font size with unit (px|pt)")
	contrastCmd.Flags().Bool("bold", false, "text is bold")
}

func runContrast(cmd *cobra.Command, args []string) error {
	fg, err := contrast.ParseHex(args[0])
	if err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	bg, err := contrast.ParseHex(args[1])
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	sizeStr, err := cmd.Flags().GetString("size")
	if err != nil {
		return err
	}
	size, unit, err := parseFontSize(sizeStr)
	if err != nil {
		return err
	}
	bold, err := cmd.Flags().GetBool("bold")
	if err != nil {
		return err
	}
	levelStr, err := cmd.Root().PersistentFlags().GetString("level")
	if err != nil {
		return err
	}
	level, err := contrast.ParseLevel(levelStr)
	if err != nil {
		return err
	}

	res := contrast.Evaluate(contrast.Request{
		Background: bg,
		Foreground: fg,
		Size:       size,
		Unit:       unit,
		Bold:       bold,
		Level:      level,
	})
	renderContrast(cmd.OutOrStdout(), fg, bg, res)
	if !res.Passes() {
		return errFailed
	}
	return nil
}

// parseFontSize accepts "16", "16px" or "12pt".
func parseFontSize(s string) (float64, contrast.Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	unit := contrast.UnitPx
	switch {
	case strings.HasSuffix(s, "pt"):
		unit = contrast.UnitPt
		s = strings.TrimSuffix(s, "pt")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, "", fmt.Errorf("invalid font size %q", s)
	}
	return v, unit, nil
}

func renderContrast(w io.Writer, fg, bg contrast.Color, res contrast.Result) {
	verdict := "pass"
	if !res.Passes() {
		verdict = "fail"
	}
	textKind := "normal"
	if res.Large {
		textKind = "large"
	}

	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Foreground", fg.Hex()},
		{"Background", bg.Hex()},
		{"Criterion", res.Level.Criterion()},
		{"Level", fmt.Sprintf("%s (%s text)", res.Level, textKind)},
		{"Required", contrast.FormatRatio(res.Required) + ":1"},
		{"Current", contrast.FormatRatio(res.Actual) + ":1"},
		{"Result", verdict},
	})
	if res.Background != nil {
		table.Append([]string{"Background fix", fmt.Sprintf("%s (%s:1)", res.Background.Hex(), contrast.FormatRatio(contrast.Ratio(*res.Background, fg)))})
	}
	if res.Foreground != nil {
		table.Append([]string{"Text fix", fmt.Sprintf("%s (%s:1)", res.Foreground.Hex(), contrast.FormatRatio(contrast.Ratio(bg, *res.Foreground)))})
	}
	if !res.Passes() && !res.HasSuggestion() {
		table.Append([]string{"Suggestion", "none within lightness range"})
	}
	table.Render()
}

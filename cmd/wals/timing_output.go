package main

import (
	"fmt"
	"io"

	"wals/internal/driver"
	"wals/internal/observ"
)

func printTimings(out io.Writer, res *driver.Result) {
	reports := make([]*observ.Report, 0, len(res.Files))
	for _, f := range res.Files {
		if f.Timing == nil {
			continue
		}
		reports = append(reports, f.Timing)
		fmt.Fprintf(out, "%s\n%s", relPath(f.Path), f.Timing.Summary())
	}
	fmt.Fprintf(out, "run (%d file(s))\n%s", len(res.Files), observ.Aggregate(reports).Summary())
}

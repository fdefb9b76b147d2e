package diagfmt

import (
	"fmt"
	"io"

	"wals/internal/diag"
	"wals/internal/source"
)

// Short prints one line per diagnostic:
//
//	<path>:<line>:<col>: <severity> <ident>: <message folded to one line>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			mode.format(fs.Get(d.Primary.File), fs), start.Line, start.Col,
			diag.SeverityLabel(d.Severity), d.Ident(), diag.FoldMessage(d.Message))
	}
}

// Package report renders benchmark results as aligned text tables on
// standard output.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/weiihann/pagebench/bench"
)

// Table writes section headers and result rows with fixed-width
// columns. The faults layout carries the page-fault count and
// microseconds-per-fault columns used by the memory benchmark; the
// default layout carries the block-size column used by the file
// benchmark.
type Table struct {
	w          io.Writer
	showFaults bool
}

// NewTable returns a Table writing to w.
func NewTable(w io.Writer, showFaults bool) *Table {
	return &Table{w: w, showFaults: showFaults}
}

// Section prints a blank line and a bracketed group title.
func (t *Table) Section(title string) {
	fmt.Fprintf(t.w, "\n[%s]\n", title)
}

// Header prints the column header row and a separator line.
func (t *Table) Header() {
	if t.showFaults {
		fmt.Fprintf(t.w, "%-25s %10s %12s %10s %12s %10s\n",
			"Test", "Size", "Time(us)", "Faults", "us/fault", "MB/s")
		fmt.Fprintln(t.w, strings.Repeat("-", 86))

		return
	}

	fmt.Fprintf(t.w, "%-40s %10s %10s %12s %12s\n",
		"Test", "Size", "Block", "Time(us)", "MB/s")
	fmt.Fprintln(t.w, strings.Repeat("-", 88))
}

// Row prints one result row. Throughput always carries two decimals;
// us/fault prints as 0.000 when no faults were observed.
func (t *Table) Row(r bench.Result) {
	if t.showFaults {
		fmt.Fprintf(t.w, "%-25s %10s %12d %10d %12.3f %10.2f\n",
			r.Name,
			FormatBytes(r.TotalBytes),
			r.Elapsed.Microseconds(),
			r.Faults,
			r.MicrosPerFault(),
			r.ThroughputMBs(),
		)

		return
	}

	fmt.Fprintf(t.w, "%-40s %10s %10s %12d %12.2f\n",
		r.Name,
		FormatBytes(r.TotalBytes),
		FormatBytes(r.BlockSize),
		r.Elapsed.Microseconds(),
		r.ThroughputMBs(),
	)
}

// Banner prints the boxed title block used at the start and end of a
// suite run.
func Banner(w io.Writer, lines ...string) {
	rule := strings.Repeat("=", 62)

	fmt.Fprintln(w, rule)

	for _, line := range lines {
		fmt.Fprintf(w, "    %s\n", line)
	}

	fmt.Fprintln(w, rule)
}

// FormatBytes renders b in the most legible unit by magnitude.
func FormatBytes(b int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}

package reporter

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 80
	fileColWidth      = 50
	numColWidth       = 7
	warnColWidth      = 9
	maxFilePathLength = 48
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// fileRow is one line of the per-file table.
type fileRow struct {
	path     string
	errors   int
	warnings int
}

// SummaryReporter writes a per-file table followed by run statistics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}

	rows := r.collectRows(result)
	r.renderFileTable(rows)
	fmt.Fprint(r.out, r.styles.FormatSummary(result.Stats))

	return result.Stats.DiagnosticsTotal, nil
}

// collectRows returns files with diagnostics, most problems first.
func (r *SummaryReporter) collectRows(result *runner.Result) []fileRow {
	var rows []fileRow
	for _, file := range result.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		errs := file.ErrorCount()
		rows = append(rows, fileRow{
			path:     r.opts.displayPath(file.Path),
			errors:   errs,
			warnings: len(file.Diagnostics) - errs,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].errors+rows[i].warnings > rows[j].errors+rows[j].warnings
	})
	return rows
}

func (r *SummaryReporter) renderFileTable(rows []fileRow) {
	if len(rows) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))

	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.Bold.Render(padRight("File", fileColWidth)),
		r.styles.Bold.Render(padLeft("Total", numColWidth)),
		r.styles.Bold.Render(padLeft("Errors", numColWidth)),
		r.styles.Bold.Render(padLeft("Warnings", warnColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))

	for _, row := range rows {
		path := row.path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		styledPath := padRight(path, fileColWidth)
		switch {
		case row.errors > 0:
			styledPath = r.styles.Error.Render(styledPath)
		case row.warnings > 0:
			styledPath = r.styles.Warning.Render(styledPath)
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(row.errors+row.warnings), numColWidth),
			padLeft(strconv.Itoa(row.errors), numColWidth),
			padLeft(strconv.Itoa(row.warnings), warnColWidth),
		)
	}
}

package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/syntax"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 problems (2 errors, 1 warning) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		return s.Success.Render("No syntax errors") +
			s.Dim.Render(fmt.Sprintf(" (%d %s parsed)", stats.FilesParsed, plural(stats.FilesParsed, wordFile, wordFiles))) + "\n"
	}

	errs, warnings := countSeverities(stats.DiagnosticsByKind)

	var severityParts []string
	if errs > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", errs, plural(errs, "error", "errors"))))
	}
	if warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}

	line := fmt.Sprintf("%d %s (%s) in %d %s",
		stats.DiagnosticsTotal,
		plural(stats.DiagnosticsTotal, "problem", "problems"),
		strings.Join(severityParts, ", "),
		stats.FilesWithErrors,
		plural(stats.FilesWithErrors, wordFile, wordFiles),
	)
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files parsed", s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)))
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Dim.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files unreadable", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	if stats.FilesWithErrors > 0 {
		row("Files with errors", s.Failure.Render(strconv.Itoa(stats.FilesWithErrors)))
	}

	builder.WriteString("\n")
	row("Tokens scanned", s.SummaryValue.Render(strconv.Itoa(stats.TokensScanned)))
	row("Recoveries", s.SummaryValue.Render(strconv.Itoa(stats.Recoveries)))
	row("Diagnostics", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))

	kinds := make([]syntax.DiagnosticKind, 0, len(stats.DiagnosticsByKind))
	for kind := range stats.DiagnosticsByKind {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		count := strconv.Itoa(stats.DiagnosticsByKind[kind])
		if kind.IsError() {
			count = s.Error.Render(count)
		} else {
			count = s.Warning.Render(count)
		}
		builder.WriteString(fmt.Sprintf("    %-17s%s\n", string(kind)+":", count))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesWithErrors > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Warning.Render("Check passed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func countSeverities(byKind map[syntax.DiagnosticKind]int) (int, int) {
	var errs, warnings int
	for kind, count := range byKind {
		if kind.IsError() {
			errs += count
		} else {
			warnings += count
		}
	}
	return errs, warnings
}

package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
// Points are zero-based; the output shows 1-based line and column.
func (s *Styles) FormatDiagnostic(path string, diag syntax.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	start := diag.Range.StartPoint
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		start.Row+1,
		start.Column+1,
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Kind),
		s.Message.Render(diag.Message),
		s.Kind.Render("("+string(diag.Kind)+")"),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, start.Column+1))
	}

	return builder.String()
}

// FormatSeverity returns "error" for kinds that mark malformed input and
// "warning" for engine events.
func (s *Styles) FormatSeverity(kind syntax.DiagnosticKind) string {
	if kind.IsError() {
		return s.Error.Render("error")
	}
	return s.Warning.Render("warning")
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

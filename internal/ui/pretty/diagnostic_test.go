package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/syntax"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := syntax.Diagnostic{
		Kind:    syntax.DiagnosticSyntaxError,
		Message: "unexpected end of input",
		Range: syntax.Range{
			StartByte:  9,
			EndByte:    14,
			StartPoint: syntax.Point{Row: 1, Column: 2},
			EndPoint:   syntax.Point{Row: 1, Column: 7},
		},
	}

	tests := []struct {
		name        string
		showContext bool
		sourceLine  string
		contains    []string
		lines       int
	}{
		{
			name:     "without context",
			contains: []string{"page.html:2:3", "error", "unexpected end of input", "(syntax-error)"},
			lines:    1,
		},
		{
			name:        "with context",
			showContext: true,
			sourceLine:  "a {% if",
			contains:    []string{"a {% if", "^"},
			lines:       3,
		},
		{
			name:        "context requested without source",
			showContext: true,
			lines:       1,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := styles.FormatDiagnostic("page.html", diag, testCase.showContext, testCase.sourceLine)
			for _, want := range testCase.contains {
				assert.Contains(t, got, want)
			}
			assert.Equal(t, testCase.lines, strings.Count(got, "\n"))
		})
	}
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(syntax.DiagnosticScanStuck))
	assert.Equal(t, "warning", styles.FormatSeverity(syntax.DiagnosticConflictOverflow))
}

func TestFormatSourceContext_CaretColumn(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatSourceContext("abc", 3)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "c"), strings.Index(lines[1], "^"))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.html (2 issues)", styles.FormatFileHeader("a.html", 2))
	assert.Equal(t, "a.html", styles.FormatFileHeader("a.html", 0))
}

package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/syntax"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesParsed: 1},
			want:  "No syntax errors (1 file parsed)\n",
		},
		{
			name: "errors and warnings",
			stats: runner.Stats{
				FilesParsed:      3,
				FilesWithErrors:  2,
				DiagnosticsTotal: 3,
				DiagnosticsByKind: map[syntax.DiagnosticKind]int{
					syntax.DiagnosticSyntaxError:      1,
					syntax.DiagnosticScanStuck:        1,
					syntax.DiagnosticConflictOverflow: 1,
				},
			},
			want: "3 problems (2 errors, 1 warning) in 2 files\n",
		},
		{
			name: "single error",
			stats: runner.Stats{
				FilesWithErrors:   1,
				DiagnosticsTotal:  1,
				DiagnosticsByKind: map[syntax.DiagnosticKind]int{syntax.DiagnosticSyntaxError: 1},
			},
			want: "1 problem (1 error) in 1 file\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, styles.FormatSummaryOneLine(testCase.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	failed := styles.FormatSummary(runner.Stats{
		FilesDiscovered:   4,
		FilesParsed:       3,
		FilesSkipped:      1,
		FilesWithErrors:   1,
		DiagnosticsTotal:  1,
		DiagnosticsByKind: map[syntax.DiagnosticKind]int{syntax.DiagnosticSyntaxError: 1},
	})
	assert.Contains(t, failed, "Files discovered:  4")
	assert.Contains(t, failed, "Files skipped:     1")
	assert.Contains(t, failed, "syntax-error:    1")
	assert.Contains(t, failed, "Check failed")

	passed := styles.FormatSummary(runner.Stats{FilesParsed: 2})
	assert.Contains(t, passed, "Check passed")
	assert.NotContains(t, passed, "Files with errors")
}

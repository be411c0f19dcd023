package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/pkg/reporter"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

const badTemplate = "ok\nhello {% if x"

func sampleResult() *runner.Result {
	bad := runner.FileOutcome{
		Path:   "/work/templates/bad.html",
		Source: source.NewSnapshot("/work/templates/bad.html", []byte(badTemplate)),
		Blocks: 1,
		Diagnostics: []syntax.Diagnostic{
			{
				Kind:    syntax.DiagnosticSyntaxError,
				Message: "unexpected end of input",
				Range: syntax.Range{
					StartByte:  9,
					EndByte:    16,
					StartPoint: syntax.Point{Row: 1, Column: 6},
					EndPoint:   syntax.Point{Row: 1, Column: 13},
				},
			},
			{
				Kind:    syntax.DiagnosticConflictOverflow,
				Message: "dropped 1 parse version",
				Range: syntax.Range{
					StartByte:  3,
					EndByte:    3,
					StartPoint: syntax.Point{Row: 1, Column: 0},
					EndPoint:   syntax.Point{Row: 1, Column: 0},
				},
			},
		},
	}
	good := runner.FileOutcome{Path: "/work/templates/good.html", Blocks: 1}
	broken := runner.FileOutcome{Path: "/work/missing.html", Error: errors.New("read failed")}

	return &runner.Result{
		Files: []runner.FileOutcome{broken, bad, good},
		Stats: runner.Stats{
			FilesDiscovered:  3,
			FilesParsed:      2,
			FilesErrored:     1,
			FilesWithErrors:  1,
			DiagnosticsTotal: 2,
			DiagnosticsByKind: map[syntax.DiagnosticKind]int{
				syntax.DiagnosticSyntaxError:      1,
				syntax.DiagnosticConflictOverflow: 1,
			},
		},
	}
}

func newReporter(t *testing.T, format reporter.Format, buf *bytes.Buffer) reporter.Reporter {
	t.Helper()

	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = "/work"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "sarif", want: reporter.FormatSARIF},
		{input: "summary", want: reporter.FormatSummary},
		{input: "diff", wantErr: true},
		{input: "table", wantErr: true},
		{input: "JSON", wantErr: true},
	}

	for _, testCase := range tests {
		got, err := reporter.ParseFormat(testCase.input)
		if testCase.wantErr {
			require.Error(t, err, testCase.input)
			assert.Contains(t, err.Error(), reporter.FormatNames())
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, testCase.want, got)
		assert.True(t, got.IsValid())
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format reporter.Format
		valid  bool
	}{
		{format: reporter.FormatText, valid: true},
		{format: reporter.FormatJSON, valid: true},
		{format: reporter.FormatSARIF, valid: true},
		{format: reporter.FormatSummary, valid: true},
		{format: "diff", valid: false},
		{format: "", valid: false},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.valid, testCase.format.IsValid(), testCase.format)
		assert.Equal(t, testCase.valid, slices.Contains(reporter.Formats(), testCase.format), testCase.format)
	}
	assert.Equal(t, "text, json, sarif, summary", reporter.FormatNames())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml", Writer: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "missing.html: error: read failed")
	assert.Contains(t, out, "templates/bad.html (2 issues)")
	assert.Contains(t, out, "templates/bad.html:2:7  error  unexpected end of input  (syntax-error)")
	assert.Contains(t, out, "templates/bad.html:2:1  warning  dropped 1 parse version  (conflict-overflow)")
	assert.Contains(t, out, "hello {% if x")
	assert.NotContains(t, out, "good.html")
	assert.Contains(t, out, "2 problems (1 error, 1 warning) in 1 file")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, "No templates to check.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := newReporter(t, reporter.FormatJSON, &buf).Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 3)
	assert.Equal(t, "read failed", output.Files[0].Error)
	assert.Nil(t, output.Files[0].Stats)

	bad := output.Files[1]
	assert.Equal(t, "templates/bad.html", bad.Path)
	require.Len(t, bad.Diagnostics, 2)
	assert.Equal(t, reporter.JSONDiagnostic{
		Kind:        "syntax-error",
		Severity:    "error",
		Message:     "unexpected end of input",
		StartLine:   2,
		StartColumn: 7,
		EndLine:     2,
		EndColumn:   14,
		StartOffset: 9,
		EndOffset:   16,
	}, bad.Diagnostics[0])
	assert.Equal(t, "warning", bad.Diagnostics[1].Severity)

	assert.Empty(t, output.Files[2].Diagnostics)
	assert.NotNil(t, output.Files[2].Stats)

	assert.Equal(t, 2, output.Summary.TotalIssues)
	assert.Equal(t, 1, output.Summary.FilesWithErrors)
	assert.Equal(t, map[string]int{"syntax-error": 1, "conflict-overflow": 1}, output.Summary.ByKind)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})
	_, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := newReporter(t, reporter.FormatSARIF, &buf).Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)
	run := output.Runs[0]
	assert.Equal(t, "djtree", run.Tool.Driver.Name)
	assert.Equal(t, "dev", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, 4)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, "syntax-error", first.RuleID)
	assert.Equal(t, "error", first.Level)
	region := first.Locations[0].PhysicalLocation.Region
	assert.Equal(t, 2, region.StartLine)
	assert.Equal(t, 7, region.StartColumn)
	assert.Equal(t, 9, region.ByteOffset)
	assert.Equal(t, 7, region.ByteLength)
	assert.Equal(t, "templates/bad.html", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "warning", run.Results[1].Level)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := newReporter(t, reporter.FormatSummary, &buf).Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	out := buf.String()
	assert.Contains(t, out, "Files Summary")
	assert.Contains(t, out, "templates/bad.html")
	assert.NotContains(t, out, "good.html")
	assert.Contains(t, out, "Check failed")
}

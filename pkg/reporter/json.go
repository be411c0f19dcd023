package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/syntax"
)

// jsonSchemaVersion changes when the JSON layout changes.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Blocks      int              `json:"blocks,omitempty"`
	Stats       *syntax.Stats    `json:"stats,omitempty"`
	Skipped     string           `json:"skipped,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic. Lines and columns are
// 1-based; offsets are bytes.
type JSONDiagnostic struct {
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesParsed     int            `json:"filesParsed"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesErrored    int            `json:"filesErrored"`
	FilesWithErrors int            `json:"filesWithErrors"`
	TotalIssues     int            `json:"totalIssues"`
	ByKind          map[string]int `json:"byKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByKind: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Summary.FilesDiscovered = result.Stats.FilesDiscovered
	output.Summary.FilesParsed = result.Stats.FilesParsed
	output.Summary.FilesSkipped = result.Stats.FilesSkipped
	output.Summary.FilesErrored = result.Stats.FilesErrored
	output.Summary.FilesWithErrors = result.Stats.FilesWithErrors

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: make([]JSONDiagnostic, 0, len(file.Diagnostics)),
			Blocks:      file.Blocks,
			Skipped:     string(file.Skipped),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		if file.Error == nil && file.Skipped == "" {
			stats := file.Stats
			fileResult.Stats = &stats
		}

		for _, diag := range file.Diagnostics {
			fileResult.Diagnostics = append(fileResult.Diagnostics, toJSONDiagnostic(diag))
			output.Summary.TotalIssues++
			output.Summary.ByKind[string(diag.Kind)]++
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func toJSONDiagnostic(diag syntax.Diagnostic) JSONDiagnostic {
	return JSONDiagnostic{
		Kind:        string(diag.Kind),
		Severity:    severityOf(diag.Kind),
		Message:     diag.Message,
		StartLine:   diag.Range.StartPoint.Row + 1,
		StartColumn: diag.Range.StartPoint.Column + 1,
		EndLine:     diag.Range.EndPoint.Row + 1,
		EndColumn:   diag.Range.EndPoint.Column + 1,
		StartOffset: diag.Range.StartByte,
		EndOffset:   diag.Range.EndByte,
	}
}

// severityOf maps a diagnostic kind to "error" or "warning".
func severityOf(kind syntax.DiagnosticKind) string {
	if kind.IsError() {
		return "error"
	}
	return "warning"
}

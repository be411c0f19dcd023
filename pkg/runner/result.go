package runner

import (
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

// SkipReason explains why a discovered file was not parsed.
type SkipReason string

// Skip reasons.
const (
	SkipNotTemplate SkipReason = "not a template"
	SkipBinary      SkipReason = "binary content"
	SkipNoBlocks    SkipReason = "no template blocks"
)

// FileOutcome is the result of parsing one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Source is the file content with its line index.
	Source *source.Snapshot

	// Tree is the parse tree of a template file. It is nil for Markdown
	// files, whose blocks are parsed separately.
	Tree *syntax.Tree

	// Blocks is the number of embedded template blocks parsed.
	Blocks int

	// Diagnostics are in file coordinates, in document order.
	Diagnostics []syntax.Diagnostic

	// Stats sums the engine counters of every parse of the file.
	Stats syntax.Stats

	// Skipped is set when the file was discovered but not parsed.
	Skipped SkipReason

	// Error is set if the file could not be read or parsed.
	Error error
}

// ErrorCount returns the number of diagnostics that mark malformed input.
func (o FileOutcome) ErrorCount() int {
	count := 0
	for _, diag := range o.Diagnostics {
		if diag.Kind.IsError() {
			count++
		}
	}
	return count
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesParsed is the number of files parsed without a processing error.
	FilesParsed int

	// FilesSkipped is the number of files skipped by content detection.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// FilesWithErrors is the number of files with at least one syntax error.
	FilesWithErrors int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsByKind maps diagnostic kinds to counts.
	DiagnosticsByKind map[syntax.DiagnosticKind]int

	// TokensScanned sums syntax.Stats.TokensScanned over all parses.
	TokensScanned int

	// Recoveries sums syntax.Stats.Recoveries over all parses.
	Recoveries int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file has a syntax error or failed to
// process.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesWithErrors > 0 || r.Stats.FilesErrored > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsByKind: make(map[syntax.DiagnosticKind]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case outcome.Skipped != "":
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesParsed++
	r.Stats.TokensScanned += outcome.Stats.TokensScanned
	r.Stats.Recoveries += outcome.Stats.Recoveries
	r.Stats.DiagnosticsTotal += len(outcome.Diagnostics)

	if outcome.ErrorCount() > 0 {
		r.Stats.FilesWithErrors++
	}
	for _, diag := range outcome.Diagnostics {
		r.Stats.DiagnosticsByKind[diag.Kind]++
	}
}

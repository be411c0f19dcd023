package syntax

import (
	"errors"
	"fmt"
)

// Sentinel errors for parsing.
var (
	// ErrNilLanguage is returned when a parser is created without a language.
	ErrNilLanguage = errors.New("language is nil")

	// ErrIncrementalityViolation is returned when an incremental parse
	// disagrees with the text or with a full parse.
	ErrIncrementalityViolation = errors.New("incremental parse diverged from full parse")

	// ErrTextMismatch is returned when the text passed to an incremental
	// parse does not match the old tree's length after its edits.
	ErrTextMismatch = errors.New("text does not match edited tree")

	// ErrInvalidEdit is returned for edits with inconsistent ranges.
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrInvalidTable is wrapped by every TableError.
	ErrInvalidTable = errors.New("invalid parse table")
)

// TableError describes a malformed table entry.
type TableError struct {
	State  StateID
	Symbol Symbol
	Reason string
}

// Error implements the error interface.
func (e *TableError) Error() string {
	return fmt.Sprintf("invalid parse table: state %d, symbol %d: %s", e.State, e.Symbol, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidTable.
func (e *TableError) Unwrap() error {
	return ErrInvalidTable
}

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// DiagnosticScanStuck marks input the scanner could not tokenize.
	DiagnosticScanStuck DiagnosticKind = "scan-stuck"
	// DiagnosticSyntaxError marks an ERROR node produced by recovery.
	DiagnosticSyntaxError DiagnosticKind = "syntax-error"
	// DiagnosticConflictOverflow marks versions dropped by fork pruning.
	DiagnosticConflictOverflow DiagnosticKind = "conflict-overflow"
	// DiagnosticResyncLimit marks recovery that swallowed the rest of the input.
	DiagnosticResyncLimit DiagnosticKind = "resync-limit"
)

// IsError reports whether the kind indicates malformed input.
func (k DiagnosticKind) IsError() bool {
	switch k {
	case DiagnosticScanStuck, DiagnosticSyntaxError, DiagnosticResyncLimit:
		return true
	default:
		return false
	}
}

// Diagnostic is a problem recorded while parsing.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Range   Range          `json:"range"`
	Message string         `json:"message"`
}

// String returns "row:col: kind: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range.StartPoint, d.Kind, d.Message)
}

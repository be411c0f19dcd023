// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Parser fields.
	FieldLanguage    = "language"
	FieldMaxForks    = "max_forks"
	FieldMaxSkip     = "max_skip"
	FieldJobs        = "jobs"
	FieldIncremental = "incremental"
	FieldReused      = "subtrees_reused"
	FieldTokens      = "tokens_scanned"
	FieldOffset      = "offset"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesParsed      = "files_parsed"
	FieldFilesWithErrors  = "files_with_errors"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldDuration         = "duration"

	// Session fields.
	FieldSession  = "session"
	FieldDocument = "document"
	FieldRevision = "revision"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

package cli

import (
	"errors"

	"github.com/yaklabco/djtree/pkg/runner"
)

// Exit codes for djtree.
const (
	// ExitSuccess indicates successful execution with no syntax errors.
	ExitSuccess = 0

	// ExitSyntaxErrors indicates parsing completed but found syntax errors.
	ExitSyntaxErrors = 1

	// ExitWarnings indicates only warnings were found and --strict was set.
	ExitWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrSyntaxErrorsFound is returned when a parse produced error diagnostics.
	ErrSyntaxErrorsFound = errors.New("syntax errors found")

	// ErrWarningsFound is returned in strict mode when only warnings were found.
	ErrWarningsFound = errors.New("warnings found")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrUsage wraps invalid flag combinations and arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrIO wraps failures to read input files.
	ErrIO = errors.New("i/o error")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitSyntaxErrors
	}

	if strict && result.HasIssues() {
		return ExitWarnings
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrSyntaxErrorsFound):
		return ExitSyntaxErrors
	case errors.Is(err, ErrWarningsFound):
		return ExitWarnings
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReportedError reports whether err only signals an exit status for
// findings that were already printed.
func IsReportedError(err error) bool {
	return errors.Is(err, ErrSyntaxErrorsFound) || errors.Is(err, ErrWarningsFound)
}

package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/djtree/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "parser.max_forks").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// maxForksLimit keeps GLR fan-out bounded even when configured by hand.
const maxForksLimit = 256

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	fail := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cfg.Parser.MaxForks < 1 || cfg.Parser.MaxForks > maxForksLimit {
		fail("parser.max_forks", cfg.Parser.MaxForks, "must be between 1 and %d", maxForksLimit)
	}
	if cfg.Parser.MaxSkip < 1 {
		fail("parser.max_skip", cfg.Parser.MaxSkip, "must be >= 1")
	}
	if cfg.Parser.MaxBlockDepth < 1 {
		fail("parser.max_block_depth", cfg.Parser.MaxBlockDepth, "must be >= 1")
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		fail("format", cfg.Format, "invalid format %q; must be one of: text, json, sarif, summary", cfg.Format)
	}
	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q has no leading dot; it will match as %q", ext, "."+ext),
			})
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	if cfg.Markdown.Enabled && len(cfg.Markdown.Languages) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "markdown.languages",
			Message: "markdown checking is enabled but no fence languages are listed",
		})
	}

	return result
}

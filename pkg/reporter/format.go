package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects how djtree check reports diagnostics.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
	FormatSummary Format = "summary"
)

// formats lists every Format in the order help text shows them.
var formats = []Format{FormatText, FormatJSON, FormatSARIF, FormatSummary}

// Formats returns the supported output formats.
func Formats() []Format {
	return slices.Clone(formats)
}

// FormatNames returns the supported formats as a comma-separated list.
func FormatNames() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatText, nil
	}
	if f := Format(formatStr); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q; djtree check supports: %s", formatStr, FormatNames())
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}

package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/djtree/pkg/config"
)

// envVarPrefix is the prefix for all djtree environment variables.
const envVarPrefix = "DJTREE_"

// envVar binds one environment variable to a config field.
type envVar struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

func intVar(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}

func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"MAX_FORKS": {
		"Maximum simultaneous parse versions",
		intVar(func(c *config.Config, v int) { c.Parser.MaxForks = v }),
	},
	"MAX_SKIP": {
		"Tokens error recovery may skip",
		intVar(func(c *config.Config, v int) { c.Parser.MaxSkip = v }),
	},
	"MAX_BLOCK_DEPTH": {
		"Open blocks tracked for end-tag matching",
		intVar(func(c *config.Config, v int) { c.Parser.MaxBlockDepth = v }),
	},
	"VERIFY_INCREMENTAL": {
		"Compare incremental parses with full parses: true or false",
		boolVar(func(c *config.Config, v bool) { c.Parser.VerifyIncremental = v }),
	},
	"JOBS": {
		"Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config, v int) { c.Jobs = v }),
	},
	"FORMAT": {
		"Output format: text, json, sarif, or summary",
		func(c *config.Config, v string) error { c.Format = config.OutputFormat(v); return nil },
	},
	"EXTENSIONS": {
		"Comma-separated list of template extensions",
		func(c *config.Config, v string) error { c.Extensions = parseSliceValue(v); return nil },
	},
	"IGNORE": {
		"Comma-separated list of ignore patterns",
		func(c *config.Config, v string) error { c.Ignore = parseSliceValue(v); return nil },
	},
	"DETECT_LANGUAGE": {
		"Detect templates by content: true or false",
		boolVar(func(c *config.Config, v bool) { c.DetectLanguage = v }),
	},
	"MARKDOWN": {
		"Check templates fenced in Markdown: true or false",
		boolVar(func(c *config.Config, v bool) { c.Markdown.Enabled = v }),
	},
	"SESSION_PATH": {
		"SQLite file for reparse sessions",
		func(c *config.Config, v string) error { c.Session.Path = v; return nil },
	},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with DJTREE_ (e.g., DJTREE_MAX_FORKS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range envSuffixes() {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		if err := envVars[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func envSuffixes() []string {
	suffixes := make([]string, 0, len(envVars))
	for suffix := range envVars {
		suffixes = append(suffixes, suffix)
	}
	slices.Sort(suffixes)
	return suffixes
}

// parseSliceValue parses a comma-separated string into a slice.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		out[envVarPrefix+suffix] = v.description
	}
	return out
}

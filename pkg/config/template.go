package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml":
	case "json":
		return templateToJSON()
	default:
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}

	if opts.Full {
		return NewConfig().ToYAMLWithHeader(DefaultTemplateHeader())
	}
	return []byte(minimalTemplate()), nil
}

func minimalTemplate() string {
	var sb strings.Builder
	sb.WriteString(DefaultTemplateHeader())
	sb.WriteString(`

# Parse engine limits
parser:
  # Simultaneous GLR versions before pruning
  max_forks: 8
  # Tokens error recovery may skip before swallowing the rest of the file
  max_skip: 32
  # Open blocks tracked for end-tag matching
  # max_block_depth: 64
  # Compare every incremental parse with a full parse (slow)
  # verify_incremental: false

# Extensions discovered as templates
extensions:
`)
	for _, ext := range DefaultExtensions() {
		sb.WriteString("  - \"" + ext + "\"\n")
	}
	sb.WriteString(`
# Also check files whose content looks like a Django template
# detect_language: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "node_modules/**"
#   - "staticfiles/**"

# Check django/jinja fenced blocks inside Markdown files
# markdown:
#   enabled: true
#   languages: [django, htmldjango, jinja]

# Where 'djtree reparse' keeps document versions
# session:
#   path: ""
`)
	return sb.String()
}

// templateToJSON renders the defaults as JSON. JSON has no comments, so the
// full and minimal templates are the same.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"parser": map[string]any{
			"max_forks":          cfg.Parser.MaxForks,
			"max_skip":           cfg.Parser.MaxSkip,
			"max_block_depth":    cfg.Parser.MaxBlockDepth,
			"verify_incremental": cfg.Parser.VerifyIncremental,
		},
		"extensions":      cfg.Extensions,
		"ignore":          []string{},
		"detect_language": cfg.DetectLanguage,
		"markdown": map[string]any{
			"enabled":   cfg.Markdown.Enabled,
			"languages": cfg.Markdown.Languages,
		},
		"session": map[string]any{
			"path": cfg.Session.Path,
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# djtree configuration
# See: https://github.com/yaklabco/djtree`
}

// Package config defines core configuration types for djtree.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary:
		return true
	default:
		return false
	}
}

// TreeFormat specifies how `djtree parse` prints a tree.
type TreeFormat string

const (
	TreeFormatSExpr  TreeFormat = "sexp"
	TreeFormatPretty TreeFormat = "pretty"
	TreeFormatJSON   TreeFormat = "json"
)

// IsValid returns true if the tree format is known.
func (f TreeFormat) IsValid() bool {
	switch f {
	case TreeFormatSExpr, TreeFormatPretty, TreeFormatJSON:
		return true
	default:
		return false
	}
}

// Engine limits mirrored from the parser defaults.
const (
	DefaultMaxForks      = 8
	DefaultMaxSkip       = 32
	DefaultMaxBlockDepth = 64
)

// ParserConfig tunes the parse engine and the template scanner.
type ParserConfig struct {
	// MaxForks bounds the number of simultaneous GLR versions.
	MaxForks int `mapstructure:"max_forks" yaml:"max_forks"`

	// MaxSkip bounds the tokens error recovery may discard.
	MaxSkip int `mapstructure:"max_skip" yaml:"max_skip"`

	// MaxBlockDepth bounds the open blocks the scanner tracks for end-tag
	// matching.
	MaxBlockDepth int `mapstructure:"max_block_depth" yaml:"max_block_depth"`

	// VerifyIncremental compares every incremental parse with a full parse.
	VerifyIncremental bool `mapstructure:"verify_incremental" yaml:"verify_incremental"`
}

// MarkdownConfig controls checking of templates embedded in Markdown.
type MarkdownConfig struct {
	// Enabled turns on extraction of fenced template blocks.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Languages lists the fence info strings treated as templates.
	Languages []string `mapstructure:"languages" yaml:"languages"`
}

// SessionConfig controls the incremental reparse session store.
type SessionConfig struct {
	// Path is the SQLite database file. Empty means the user cache dir.
	Path string `mapstructure:"path" yaml:"path"`
}

// Config is the root configuration structure for djtree.
type Config struct {
	// Parser tunes the engine.
	Parser ParserConfig `mapstructure:"parser" yaml:"parser"`

	// Extensions lists file extensions discovered as templates.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// DetectLanguage also checks files whose content looks like a Django
	// template regardless of extension.
	DetectLanguage bool `mapstructure:"detect_language" yaml:"detect_language"`

	// Markdown controls embedded template checking.
	Markdown MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`

	// Session configures `djtree reparse`.
	Session SessionConfig `mapstructure:"session" yaml:"session"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Color is "auto", "always" or "never".
	Color string `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are the template file extensions checked by default.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".djhtml", ".jinja", ".j2", ".txt"}
}

// DefaultMarkdownLanguages are the fence info strings extracted by default.
func DefaultMarkdownLanguages() []string {
	return []string{"django", "htmldjango", "jinja", "jinja2"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxForks:      DefaultMaxForks,
			MaxSkip:       DefaultMaxSkip,
			MaxBlockDepth: DefaultMaxBlockDepth,
		},
		Extensions: DefaultExtensions(),
		Markdown: MarkdownConfig{
			Enabled:   false,
			Languages: DefaultMarkdownLanguages(),
		},
		Format: FormatText,
		Color:  "auto",
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

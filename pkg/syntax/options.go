package syntax

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default engine limits.
const (
	DefaultMaxForks = 8
	DefaultMaxSkip  = 32
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	maxForks          int
	maxSkip           int
	logger            *log.Logger
	verifyIncremental bool
	scanner           Scanner
}

func defaultOptions() options {
	return options{
		maxForks: DefaultMaxForks,
		maxSkip:  DefaultMaxSkip,
		logger:   log.New(io.Discard),
	}
}

// WithMaxForks bounds the number of simultaneous parse versions.
func WithMaxForks(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxForks = n
		}
	}
}

// WithMaxSkip bounds the number of tokens error recovery may discard before
// it swallows the rest of the input.
func WithMaxSkip(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSkip = n
		}
	}
}

// WithLogger sets the logger used for engine debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIncrementalCheck makes every incremental parse compare its result to
// a full parse.
func WithIncrementalCheck(enabled bool) Option {
	return func(o *options) {
		o.verifyIncremental = enabled
	}
}

// WithScanner overrides the scanner created by the language.
func WithScanner(scanner Scanner) Option {
	return func(o *options) {
		o.scanner = scanner
	}
}

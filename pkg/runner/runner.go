package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/pkg/config"
	"github.com/yaklabco/djtree/pkg/django"
	"github.com/yaklabco/djtree/pkg/langdetect"
	"github.com/yaklabco/djtree/pkg/markdown"
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

// Runner parses template files with the Django language.
type Runner struct {
	cfg      *config.Config
	logger   *log.Logger
	language *syntax.Language
	markdown *markdown.Extractor
}

// New creates a Runner for cfg. A nil logger uses the default logger.
func New(cfg *config.Config, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Runner{
		cfg:      cfg,
		logger:   logger,
		language: django.LanguageWith(django.WithMaxBlockDepth(cfg.Parser.MaxBlockDepth)),
		markdown: markdown.New(markdown.FlavorGFM, cfg.Markdown.Languages),
	}
}

// Language returns the language the runner parses with.
func (r *Runner) Language() *syntax.Language {
	return r.language
}

// NewParser creates a parser configured from the runner's config. Parsers
// are not safe for concurrent use, so each worker creates its own.
func (r *Runner) NewParser() (*syntax.Parser, error) {
	parser, err := syntax.NewParser(r.language,
		syntax.WithMaxForks(r.cfg.Parser.MaxForks),
		syntax.WithMaxSkip(r.cfg.Parser.MaxSkip),
		syntax.WithIncrementalCheck(r.cfg.Parser.VerifyIncremental),
		syntax.WithLogger(logging.Engine(r.logger, r.language.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}
	return parser, nil
}

// Run discovers files under opts.Paths and parses them concurrently.
// It returns outcomes in path order and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		opts.Config = r.cfg
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	r.logger.Debug("parsing templates", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts.effectiveExtensions())
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, extensions []string) {
	parser, err := r.NewParser()

	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path, Error: err}
		if err == nil {
			outcome = r.ParseFile(ctx, parser, path, extensions)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ParseFile reads and parses one file. Files whose extension is not in
// extensions are parsed only when their content looks like a template.
func (r *Runner) ParseFile(ctx context.Context, parser *syntax.Parser, path string, extensions []string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", path, err)
		return outcome
	}
	outcome.Source = source.NewSnapshot(path, content)

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case r.cfg.Markdown.Enabled && slices.Contains(markdownExtensions, ext):
		r.parseMarkdown(ctx, parser, &outcome)
		return outcome
	case !hasExtension(path, extensions):
		if langdetect.IsBinary(content) {
			outcome.Skipped = SkipBinary
			return outcome
		}
		if !langdetect.Detect(path, content).Template {
			outcome.Skipped = SkipNotTemplate
			return outcome
		}
	}

	tree, err := parser.Parse(ctx, content)
	if err != nil {
		outcome.Error = fmt.Errorf("parse %s: %w", path, err)
		return outcome
	}

	outcome.Tree = tree
	outcome.Blocks = 1
	outcome.Diagnostics = tree.Diagnostics()
	outcome.Stats = tree.Stats()
	return outcome
}

// parseMarkdown parses every template block of a Markdown file and maps
// diagnostics back to file coordinates.
func (r *Runner) parseMarkdown(ctx context.Context, parser *syntax.Parser, outcome *FileOutcome) {
	blocks, err := r.markdown.Extract(ctx, outcome.Source.Content)
	if err != nil {
		outcome.Error = fmt.Errorf("extract %s: %w", outcome.Path, err)
		return
	}
	if len(blocks) == 0 {
		outcome.Skipped = SkipNoBlocks
		return
	}

	for _, block := range blocks {
		tree, err := parser.Parse(ctx, block.Content)
		if err != nil {
			outcome.Error = fmt.Errorf("parse %s:%d: %w", outcome.Path, block.Line, err)
			return
		}

		outcome.Blocks++
		outcome.Stats = addStats(outcome.Stats, tree.Stats())
		for _, diag := range tree.Diagnostics() {
			outcome.Diagnostics = append(outcome.Diagnostics, mapDiagnostic(diag, block, outcome.Source))
		}
	}
}

func mapDiagnostic(diag syntax.Diagnostic, block markdown.Block, snap *source.Snapshot) syntax.Diagnostic {
	start := block.FileOffset(diag.Range.StartByte)
	end := block.FileOffset(diag.Range.EndByte)
	diag.Range = syntax.Range{
		StartByte:  start,
		EndByte:    end,
		StartPoint: snap.Point(start),
		EndPoint:   snap.Point(end),
	}
	return diag
}

func addStats(a, b syntax.Stats) syntax.Stats {
	return syntax.Stats{
		TokensScanned:  a.TokensScanned + b.TokensScanned,
		SubtreesReused: a.SubtreesReused + b.SubtreesReused,
		BytesReused:    a.BytesReused + b.BytesReused,
		Forks:          a.Forks + b.Forks,
		Merges:         a.Merges + b.Merges,
		Recoveries:     a.Recoveries + b.Recoveries,
		MaxVersions:    max(a.MaxVersions, b.MaxVersions),
	}
}

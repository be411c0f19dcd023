package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/djtree/pkg/langdetect"
)

// Discover finds template files matching opts under the given working
// directory. With detect_language set, files of any extension are returned
// and the worker decides from their content. It returns a sorted list of
// absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	d, err := newDiscoverer(ctx, opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := filepath.Clean(input)
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.workDir, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			if d.accept(path) {
				d.add(path)
			}
			continue
		}
		if err := d.walk(path); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// globSet is a compiled list of patterns. Patterns without a slash also
// match the base name, so "*.txt" applies at any depth.
type globSet []glob.Glob

func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if !strings.Contains(pattern, "/") {
			pattern = "{" + pattern + ",**/" + pattern + "}"
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		set = append(set, g)
	}
	return set, nil
}

func (s globSet) match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, g := range s {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// discoverer accumulates the files of one Discover call.
type discoverer struct {
	ctx        context.Context
	opts       Options
	workDir    string
	extensions []string
	include    globSet
	exclude    globSet
	seen       map[string]bool
	files      []string
}

func newDiscoverer(ctx context.Context, opts Options) (*discoverer, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}

	return &discoverer{
		ctx:        ctx,
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		include:    include,
		exclude:    exclude,
		seen:       make(map[string]bool),
	}, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

func (d *discoverer) add(path string) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// walk adds the candidate files below root. Hidden entries below root are
// skipped, as are vendored directories unless IncludeVendored is set.
// Directory symlinks are followed only with FollowSymlinks.
func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || d.skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// Broken or unreadable links are not templates.
				return nil //nolint:nilerr // skipping is the intended outcome
			}
			if target.IsDir() {
				return d.walkLinkedDir(path)
			}
		}

		if d.accept(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// walkLinkedDir walks the resolved target of a directory symlink. WalkDir
// does not follow links itself, so resolving first cannot loop on the link.
func (d *discoverer) walkLinkedDir(link string) error {
	if !d.opts.FollowSymlinks {
		return nil
	}
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return nil //nolint:nilerr // a link that vanished mid-walk is skipped
	}
	return d.walk(target)
}

func (d *discoverer) skipDir(path string) bool {
	rel := filepath.ToSlash(d.rel(path))
	if d.exclude.match(rel) || d.exclude.match(rel+"/") {
		return true
	}
	return !d.opts.IncludeVendored && langdetect.IsVendored(rel+"/")
}

// accept reports whether a file passes the extension and glob filters.
func (d *discoverer) accept(path string) bool {
	if !d.opts.config().DetectLanguage && !hasExtension(path, d.extensions) {
		return false
	}
	rel := d.rel(path)
	if d.exclude.match(rel) {
		return false
	}
	return len(d.include) == 0 || d.include.match(rel)
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

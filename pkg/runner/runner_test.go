package runner_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/pkg/config"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/syntax"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"good.html": "{% if a %}x{% endif %}",
		"bad.html":  "hello {% if x",
		"plain.txt": "just text",
		"views.py":  "{{ not discovered }}",
	})

	cfg := config.NewConfig()
	result, err := runner.New(cfg, nil).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, []string{"bad.html", "good.html", "plain.txt"}, relative(t, dir, paths(result)))

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesParsed)
	assert.Equal(t, 1, result.Stats.FilesWithErrors)
	assert.Equal(t, 1, result.Stats.DiagnosticsByKind[syntax.DiagnosticSyntaxError])
	assert.Positive(t, result.Stats.TokensScanned)
	assert.True(t, result.HasFailures())
	assert.True(t, result.HasIssues())

	bad := result.Files[0]
	require.NotNil(t, bad.Tree)
	assert.Equal(t, 1, bad.ErrorCount())
	assert.Equal(t, 6, bad.Diagnostics[0].Range.StartByte)

	good := result.Files[1]
	assert.False(t, good.Tree.HasError())
	assert.Empty(t, good.Diagnostics)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil, nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())
	assert.False(t, result.HasIssues())
}

func TestRunner_Run_SerialMatchesParallel(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i, text := range []string{
		"{% for x in xs %}{{ x|upper }}{% empty %}none{% endfor %}",
		"{# c #}{% verbatim %}{{ raw }}{% endverbatim %}",
		"{% block a %}{% if b %}",
		"{{ 'a'|default:\"b\" }}",
		"{%- if x -%} y {%- endif -%}",
	} {
		files[filepath.Join("t", strings.Repeat("a", i+1)+".html")] = text
	}
	dir := writeTree(t, files)

	run := func(jobs int) []string {
		result, err := runner.New(nil, nil).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: jobs})
		require.NoError(t, err)

		trees := make([]string, 0, len(result.Files))
		for _, outcome := range result.Files {
			require.NoError(t, outcome.Error)
			trees = append(trees, outcome.Tree.RootNode().String())
		}
		return trees
	}

	assert.Equal(t, run(1), run(4))
}

func TestRunner_Run_DetectLanguage(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"views.py": "html = '{{ user }}'",
		"notes.md": "no templates here",
		"data.bin": "{{ x }}\x00\x00",
	})

	cfg := config.NewConfig()
	cfg.DetectLanguage = true

	result, err := runner.New(cfg, nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	byName := map[string]runner.FileOutcome{}
	for _, outcome := range result.Files {
		byName[filepath.Base(outcome.Path)] = outcome
	}

	assert.Equal(t, runner.SkipBinary, byName["data.bin"].Skipped)
	assert.Equal(t, runner.SkipNotTemplate, byName["notes.md"].Skipped)
	assert.Empty(t, byName["views.py"].Skipped)
	assert.NotNil(t, byName["views.py"].Tree)
	assert.Equal(t, 2, result.Stats.FilesSkipped)
	assert.Equal(t, 1, result.Stats.FilesParsed)
}

func TestRunner_Run_Markdown(t *testing.T) {
	t.Parallel()

	doc := "# T\n\n```django\nhello {% if x\n```\n\n```jinja\n{{ ok }}\n```\n"
	dir := writeTree(t, map[string]string{
		"guide.md": doc,
		"empty.md": "```python\nx = 1\n```\n",
	})

	cfg := config.NewConfig()
	cfg.Markdown.Enabled = true
	cfg.Extensions = []string{".jinja"}

	result, err := runner.New(cfg, nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	empty, guide := result.Files[0], result.Files[1]
	assert.Equal(t, runner.SkipNoBlocks, empty.Skipped)

	require.NoError(t, guide.Error)
	assert.Nil(t, guide.Tree)
	assert.Equal(t, 2, guide.Blocks)
	require.Len(t, guide.Diagnostics, 1)

	diag := guide.Diagnostics[0]
	lineStart := strings.Index(doc, "hello")
	assert.Equal(t, syntax.DiagnosticSyntaxError, diag.Kind)
	assert.Equal(t, 3, diag.Range.StartPoint.Row)
	assert.GreaterOrEqual(t, diag.Range.StartByte, lineStart)
	assert.LessOrEqual(t, diag.Range.EndByte, lineStart+len("hello {% if x\n"))
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"a.html": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil, nil).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ParseFile_ReadError(t *testing.T) {
	t.Parallel()

	r := runner.New(nil, nil)
	parser, err := r.NewParser()
	require.NoError(t, err)

	outcome := r.ParseFile(context.Background(), parser, filepath.Join(t.TempDir(), "gone.html"), config.DefaultExtensions())
	require.Error(t, outcome.Error)
	assert.Nil(t, outcome.Tree)
}

func TestResult_NilIsClean(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	assert.False(t, result.HasFailures())
	assert.False(t, result.HasIssues())
}

func paths(result *runner.Result) []string {
	out := make([]string, 0, len(result.Files))
	for _, outcome := range result.Files {
		out = append(out, outcome.Path)
	}
	return out
}

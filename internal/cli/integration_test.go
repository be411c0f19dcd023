package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/internal/cli"
	"github.com/yaklabco/djtree/pkg/fsutil"
)

const (
	validTemplate   = "<p>{{ name }}</p>"
	invalidTemplate = "hello {% if x"
)

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with args and optional stdin.
func execute(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIntegration_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantOut    string
		wantErr    error
		wantStderr string
	}{
		{
			name:    "sexp from stdin",
			stdin:   validTemplate,
			args:    []string{"parse", "-"},
			wantOut: "(template (content) (expression (variable (variable_name))) (content))\n",
		},
		{
			name:       "syntax error",
			stdin:      invalidTemplate,
			args:       []string{"parse", "--no-context", "-"},
			wantOut:    "(template (content) (ERROR",
			wantErr:    cli.ErrSyntaxErrorsFound,
			wantStderr: "<stdin>:1:7  error  unexpected end of input  (syntax-error)",
		},
		{
			name:    "pretty",
			stdin:   validTemplate,
			args:    []string{"parse", "--format", "pretty", "--width", "80", "-"},
			wantOut: `variable_name [1:7-1:11] "name"`,
		},
		{
			name:    "quiet",
			stdin:   validTemplate,
			args:    []string{"parse", "--quiet", "-"},
			wantOut: "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, testCase.stdin, testCase.args...)
			if testCase.wantErr != nil {
				require.ErrorIs(t, res.err, testCase.wantErr)
			} else {
				require.NoError(t, res.err)
			}

			if testCase.wantOut == "" {
				assert.Empty(t, res.stdout)
			} else {
				assert.Contains(t, res.stdout, testCase.wantOut)
			}
			if testCase.wantStderr != "" {
				assert.Contains(t, res.stderr, testCase.wantStderr)
			}
		})
	}
}

func TestIntegration_ParseJSON(t *testing.T) {
	t.Parallel()

	res := execute(t, validTemplate, "parse", "--format", "json", "-")
	require.NoError(t, res.err)

	var root struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &root))

	assert.Equal(t, "template", root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "content", root.Children[0].Kind)
	assert.Equal(t, "<p>", root.Children[0].Text)
	assert.Equal(t, "expression", root.Children[1].Kind)
}

func TestIntegration_ParseInvalidFormat(t *testing.T) {
	t.Parallel()

	res := execute(t, validTemplate, "parse", "--format", "xml", "-")
	require.ErrorIs(t, res.err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestIntegration_ParseMissingFile(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "parse", filepath.Join(t.TempDir(), "missing.html"))
	require.ErrorIs(t, res.err, cli.ErrIO)
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.html", validTemplate)
	writeFile(t, dir, "bad.html", invalidTemplate)
	writeFile(t, dir, "notes.md", "# not checked\n")

	res := execute(t, "", "check", "--no-context", dir)
	require.ErrorIs(t, res.err, cli.ErrSyntaxErrorsFound)

	assert.Contains(t, res.stdout, "bad.html")
	assert.Contains(t, res.stdout, "unexpected end of input")
	assert.NotContains(t, res.stdout, "good.html")
	assert.Contains(t, res.stdout, "1 problem (1 error) in 1 file")
}

func TestIntegration_CheckClean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.html", validTemplate)
	writeFile(t, dir, "sub/b.jinja", "{% for x in xs %}{{ x }}{% endfor %}")

	res := execute(t, "", "check", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No syntax errors (2 files parsed)")
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.html", invalidTemplate)

	res := execute(t, "", "check", "--format", "json", dir)
	require.ErrorIs(t, res.err, cli.ErrSyntaxErrorsFound)

	var output struct {
		Files []struct {
			Path        string `json:"path"`
			Diagnostics []struct {
				Kind        string `json:"kind"`
				StartOffset int    `json:"startOffset"`
			} `json:"diagnostics"`
		} `json:"files"`
		Summary struct {
			FilesWithErrors int `json:"filesWithErrors"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))

	require.Len(t, output.Files, 1)
	require.Len(t, output.Files[0].Diagnostics, 1)
	assert.Equal(t, "syntax-error", output.Files[0].Diagnostics[0].Kind)
	assert.Equal(t, 6, output.Files[0].Diagnostics[0].StartOffset)
	assert.Equal(t, 1, output.Summary.FilesWithErrors)
}

func TestIntegration_CheckMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# Docs\n\n```django\nhello {% if x\n```\n")

	res := execute(t, "", "check", "--markdown", "--no-context", dir)
	require.ErrorIs(t, res.err, cli.ErrSyntaxErrorsFound)
	assert.Contains(t, res.stdout, "README.md")
}

func TestIntegration_CheckInvalidFormat(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--format", "table", t.TempDir())
	require.ErrorIs(t, res.err, cli.ErrUsage)
}

func TestIntegration_CheckInvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "bad.yml", "parser:\n  max_forks: 0\n")

	res := execute(t, "", "--config", cfgPath, "check", dir)
	require.ErrorIs(t, res.err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(res.err))
}

func TestIntegration_Edit(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "page.html", "a {{ name }} b")

	res := execute(t, "", "edit", path, "--start", "7", "--text", "x", "--tree")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "edit:       [7, 7) -> 1 bytes")
	assert.Contains(t, res.stdout, "equivalent: yes")
	assert.Contains(t, res.stdout, "(template (content) (expression (variable (variable_name))) (content))")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a {{ name }} b", string(content), "file is unchanged without --write")
}

func TestIntegration_EditWrite(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "page.html", "a {{ name }} b")

	res := execute(t, "", "edit", path, "--at", "1:6", "--end", "9", "--text", "title", "--write")
	require.NoError(t, res.err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a {{ title }} b", string(content))
}

func TestIntegration_EditDiff(t *testing.T) {
	t.Parallel()

	res := execute(t, "line one\n{{ a }}\n", "edit", "-", "--at", "2:4", "--end", "13", "--text", "b", "--diff")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "--- a/<stdin>\n")
	assert.Contains(t, res.stdout, "-{{ a }}\n")
	assert.Contains(t, res.stdout, "+{{ b }}\n")
}

func TestIntegration_EditWriteBackup(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "page.html", "a {{ name }} b")

	res := execute(t, "", "edit", path, "--start", "0", "--end", "1", "--text", "z", "--write", "--backup")
	require.NoError(t, res.err)

	backup, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "a {{ name }} b", string(backup))
}

func TestIntegration_EditWriteRequiresFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "stdin", stdin: "abc", args: []string{"edit", "-", "--start", "0", "--write"}},
		{name: "backup without write", args: []string{"edit", "-", "--start", "0", "--backup"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, testCase.stdin, testCase.args...)
			require.ErrorIs(t, res.err, cli.ErrUsage)
		})
	}
}

func TestIntegration_EditInvalidRange(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "page.html", "abc")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no position", args: []string{"--text", "x"}},
		{name: "past end", args: []string{"--start", "2", "--end", "10"}},
		{name: "both positions", args: []string{"--start", "1", "--at", "1:1"}},
		{name: "bad position", args: []string{"--at", "one"}},
		{name: "position outside", args: []string{"--at", "4:1"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t, "", append([]string{"edit", path}, testCase.args...)...)
			require.ErrorIs(t, res.err, cli.ErrUsage)
		})
	}
}

func TestIntegration_Reparse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "session.db")
	path := writeFile(t, dir, "page.html", "<p>{{ name }}</p>{% if a %}x{% endif %}")

	first := execute(t, "", "reparse", "--session", db, path)
	require.NoError(t, first.err)
	assert.Contains(t, first.stdout, "revision:   1")
	assert.Contains(t, first.stdout, "none, parsed from scratch")

	writeFile(t, dir, "page.html", "<p>{{ title }}</p>{% if a %}x{% endif %}")

	second := execute(t, "", "reparse", "--session", db, path)
	require.NoError(t, second.err)
	assert.Contains(t, second.stdout, "revision:   2")
	assert.Contains(t, second.stdout, "previous:   1")
	assert.Contains(t, second.stdout, "reused:")

	history := execute(t, "", "reparse", "--session", db, "--history", path)
	require.NoError(t, history.err)
	assert.Equal(t, 3, strings.Count(history.stdout, "\n"), "header plus two revisions")

	forget := execute(t, "", "reparse", "--session", db, "--forget", path)
	require.NoError(t, forget.err)
	assert.Contains(t, forget.stdout, "forgot")

	history = execute(t, "", "reparse", "--session", db, "--history", path)
	require.NoError(t, history.err)
	assert.Contains(t, history.stdout, "no revisions stored")
}

func TestIntegration_ReparseConflictingFlags(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "reparse", "--history", "--forget", "page.html")
	require.ErrorIs(t, res.err, cli.ErrUsage)
}

func TestIntegration_Query(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "page.html", "{% if a %}{{ name }}{% endif %}{{ other }}")

	byKind := execute(t, "", "query", "--kind", "variable_name", path)
	require.NoError(t, byKind.err)
	lines := strings.Split(strings.TrimSpace(byKind.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"a"`)
	assert.Contains(t, lines[1], `"name"`)
	assert.Contains(t, lines[2], `"other"`)

	enclosing := execute(t, "", "query", "--at", "1:15", "--kind", "paired_statement", path)
	require.NoError(t, enclosing.err)
	assert.Equal(t, 1, strings.Count(enclosing.stdout, "paired_statement"))

	descent := execute(t, "", "query", "--at", "1:15", "--named", path)
	require.NoError(t, descent.err)
	assert.True(t, strings.HasPrefix(descent.stdout, "1:1-1:43  template\n"), descent.stdout)
	assert.Contains(t, descent.stdout, `variable_name  "name"`)
}

func TestIntegration_QueryRequiresFilter(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "query", "-")
	require.ErrorIs(t, res.err, cli.ErrUsage)
}

func TestIntegration_Grammar(t *testing.T) {
	t.Parallel()

	printed := execute(t, "", "grammar")
	require.NoError(t, printed.err)
	assert.True(t, strings.HasPrefix(printed.stdout, "Template = Nodes .\n"))

	verified := execute(t, "", "grammar", "--verify")
	require.NoError(t, verified.err)
	assert.Contains(t, verified.stdout, "grammar ok")
	assert.Contains(t, verified.stdout, "start Template")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")

	res := execute(t, "", "init", "--output", path)
	require.NoError(t, res.err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "max_forks")

	again := execute(t, "", "init", "--output", path)
	require.ErrorIs(t, again.err, cli.ErrUsage)
	assert.Contains(t, again.err.Error(), "already exists")

	forced := execute(t, "", "init", "--output", path, "--force", "--full")
	require.NoError(t, forced.err)
}

func TestIntegration_InitInvalidFormat(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, res.err, cli.ErrUsage)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "djtree")
	assert.Contains(t, res.stdout, "test-version")
	assert.Contains(t, res.stdout, "test-commit")
}

func TestIntegration_UnknownFlag(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--no-such-flag")
	require.ErrorIs(t, res.err, cli.ErrUsage)
}

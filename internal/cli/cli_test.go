package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/djtree/internal/cli"
	"github.com/yaklabco/djtree/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "djtree", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing global flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"parse", "check", "edit", "reparse", "query", "grammar", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{command: "parse", flags: []string{"format", "width", "extras", "anonymous", "no-context", "quiet"}},
		{command: "check", flags: []string{
			"format", "jobs", "ext", "ignore", "include", "detect-language", "markdown",
			"verify-incremental", "max-forks", "strict", "no-context", "compact",
			"follow-symlinks", "include-vendored",
		}},
		{command: "edit", flags: []string{"start", "end", "at", "text", "tree", "diff", "write", "backup"}},
		{command: "reparse", flags: []string{"session", "history", "forget"}},
		{command: "query", flags: []string{"kind", "at", "named"}},
		{command: "grammar", flags: []string{"verify"}},
		{command: "init", flags: []string{"force", "full", "format", "output"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			subCmd, _, err := cmd.Find([]string{testCase.command})
			require.NoError(t, err)

			for _, flag := range testCase.flags {
				assert.NotNil(t, subCmd.Flags().Lookup(flag), "%s is missing --%s", testCase.command, flag)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "syntax errors", err: cli.ErrSyntaxErrorsFound, want: cli.ExitSyntaxErrors},
		{name: "warnings", err: cli.ErrWarningsFound, want: cli.ExitWarnings},
		{name: "usage", err: fmt.Errorf("%w: bad flag", cli.ErrUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("%w: bad file", cli.ErrConfig), want: cli.ExitConfigError},
		{name: "io", err: fmt.Errorf("%w: missing", cli.ErrIO), want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCode(testCase.err))
		})
	}
}

func TestIsReportedError(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsReportedError(cli.ErrSyntaxErrorsFound))
	assert.True(t, cli.IsReportedError(cli.ErrWarningsFound))
	assert.False(t, cli.IsReportedError(cli.ErrConfig))
	assert.False(t, cli.IsReportedError(nil))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "nil result", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{}, want: cli.ExitSuccess},
		{
			name:   "files with errors",
			result: &runner.Result{Stats: runner.Stats{FilesWithErrors: 1, DiagnosticsTotal: 1}},
			want:   cli.ExitSyntaxErrors,
		},
		{
			name:   "unreadable files",
			result: &runner.Result{Stats: runner.Stats{FilesErrored: 1}},
			want:   cli.ExitSyntaxErrors,
		},
		{
			name:   "warnings only",
			result: &runner.Result{Stats: runner.Stats{DiagnosticsTotal: 2}},
			want:   cli.ExitSuccess,
		},
		{
			name:   "warnings only in strict mode",
			result: &runner.Result{Stats: runner.Stats{DiagnosticsTotal: 2}},
			strict: true,
			want:   cli.ExitWarnings,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCodeFromResult(testCase.result, testCase.strict))
		})
	}
}

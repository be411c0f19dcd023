package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/pkg/config"
	"github.com/yaklabco/djtree/pkg/reporter"
	"github.com/yaklabco/djtree/pkg/runner"
)

type checkFlags struct {
	format          string
	extensions      []string
	ignore          []string
	include         []string
	strict          bool
	noContext       bool
	compact         bool
	followSymlinks  bool
	includeVendored bool
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check templates for syntax errors",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cfg, flags, info)
		},
	}

	addCheckFlags(cmd, &cfg, flags)

	return cmd
}

const checkLongDescription = `Parse templates and report syntax errors.

By default, checks every template file (.html, .htm, .djhtml, .jinja, .j2,
.txt) under the current directory. Vendored directories are skipped.

Examples:
  djtree check                        # Check current directory
  djtree check templates/             # Check a directory
  djtree check --markdown docs/       # Also check fenced template blocks
  djtree check --detect-language .    # Check any file containing template tags
  djtree check --format sarif         # Output SARIF for code scanning`

func runCheck(cmd *cobra.Command, args []string, cfg *config.Config, flags *checkFlags, info BuildInfo) error {
	logger := commandLogger(cmd)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	cfg.Format = config.OutputFormat(format)
	cfg.Extensions = flags.extensions
	cfg.Ignore = flags.ignore

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldMaxForks, finalCfg.Parser.MaxForks,
		logging.FieldMaxSkip, finalCfg.Parser.MaxSkip,
		logging.FieldJobs, finalCfg.Jobs,
	)

	checkRunner := runner.New(finalCfg, logger)

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeGlobs = flags.include
	runOpts.FollowSymlinks = flags.followSymlinks
	runOpts.IncludeVendored = flags.includeVendored

	logger.Debug("starting check",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := checkRunner.Run(cmd.Context(), runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       finalCfg.Color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		Version:     info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(cmd.Context(), result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result, flags.strict) {
	case ExitSyntaxErrors:
		return ErrSyntaxErrorsFound
	case ExitWarnings:
		return ErrWarningsFound
	default:
		return nil
	}
}

func addCheckFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: "+reporter.FormatNames())
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "template file extensions to check")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns to check regardless of extension")
	cmd.Flags().BoolVar(&cfg.DetectLanguage, "detect-language", false, "check any file whose content looks like a template")
	cmd.Flags().BoolVar(&cfg.Markdown.Enabled, "markdown", false, "check template blocks fenced in Markdown files")
	cmd.Flags().BoolVar(&cfg.Parser.VerifyIncremental, "verify-incremental", false,
		"compare every incremental parse with a full parse")
	cmd.Flags().IntVar(&cfg.Parser.MaxForks, "max-forks", 0, "maximum simultaneous parse versions (0 = default)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "traverse directory symlinks")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "do not skip vendored directories")
}

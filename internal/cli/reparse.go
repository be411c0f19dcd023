package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/internal/session"
	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/config"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/source"
)

type reparseFlags struct {
	session string
	history bool
	forget  bool
}

func newReparseCommand() *cobra.Command {
	flags := &reparseFlags{}

	cmd := &cobra.Command{
		Use:   "reparse <file>",
		Short: "Reparse a template incrementally against its previous run",
		Long: `Reparse a template incrementally against the version stored by the
previous run, then store the new version.

The versions live in a SQLite session database (default: the user cache
directory). The first run for a file parses from scratch.

Examples:
  djtree reparse page.html             # Reparse and record a revision
  djtree reparse --history page.html   # List stored revisions
  djtree reparse --forget page.html    # Drop stored revisions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReparse(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.session, "session", "", "session database path")
	cmd.Flags().BoolVar(&flags.history, "history", false, "list stored revisions instead of reparsing")
	cmd.Flags().BoolVar(&flags.forget, "forget", false, "delete stored revisions of the file")

	return cmd
}

func runReparse(cmd *cobra.Command, path string, flags *reparseFlags) error {
	if path == stdinPath {
		return fmt.Errorf("%w: reparse needs a file path", ErrUsage)
	}
	if flags.history && flags.forget {
		return fmt.Errorf("%w: --history and --forget are mutually exclusive", ErrUsage)
	}

	cfg, _, err := loadConfig(cmd, &config.Config{Session: config.SessionConfig{Path: flags.session}})
	if err != nil {
		return err
	}
	name := documentName(path)
	ctx := logging.WithDocument(cmd.Context(), name)
	logger := logging.FromContext(ctx)

	dbPath := cfg.Session.Path
	if dbPath == "" {
		if dbPath, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	store, err := session.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	logger.Debug("session opened", logging.FieldSession, dbPath)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))

	switch {
	case flags.forget:
		removed, err := store.Forget(ctx, name)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(out, "forgot %s\n", path)
		} else {
			fmt.Fprintf(out, "no revisions stored for %s\n", path)
		}
		return nil
	case flags.history:
		revs, err := store.History(ctx, name)
		if err != nil {
			return err
		}
		writeHistory(out, styles, path, revs)
		return nil
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}
	parser, err := runner.New(cfg, logger).NewParser()
	if err != nil {
		return err
	}

	result, err := store.Reparse(ctx, parser, name, content)
	if err != nil {
		return err
	}

	logger.Debug("revision stored",
		logging.FieldRevision, result.Revision.Number,
		logging.FieldReused, result.Tree.Stats().SubtreesReused,
	)

	writeReparseReport(out, styles, result)

	snap := source.NewSnapshot(path, content)
	writeDiagnostics(cmd.ErrOrStderr(), styles, path, snap, result.Tree.Diagnostics(), true)
	if hasErrors(result.Tree.Diagnostics()) {
		return ErrSyntaxErrorsFound
	}
	return nil
}

func writeReparseReport(out io.Writer, styles *pretty.Styles, result session.ReparseResult) {
	row := func(label, value string) {
		fmt.Fprintf(out, "  %-12s%s\n", label+":", value)
	}

	stats := result.Tree.Stats()
	row("revision", styles.SummaryValue.Render(fmt.Sprint(result.Revision.Number)))

	switch {
	case result.Previous == nil:
		row("previous", styles.Dim.Render("none, parsed from scratch"))
	case !result.Changed:
		row("previous", fmt.Sprintf("%d (unchanged)", result.Previous.Number))
	default:
		row("previous", fmt.Sprint(result.Previous.Number))
		row("edit", fmt.Sprintf("[%d, %d) -> %d bytes",
			result.Edit.StartOffset, result.Edit.EndOffset, len(result.Edit.NewText)))
		row("reused", styles.SummaryValue.Render(fmt.Sprintf("%d subtrees (%d bytes)",
			stats.SubtreesReused, stats.BytesReused)))
		if result.FellBack {
			row("fallback", styles.Warning.Render("full parse"))
		}
	}
	row("scanned", fmt.Sprintf("%d tokens", stats.TokensScanned))
}

func writeHistory(out io.Writer, styles *pretty.Styles, path string, revs []session.Revision) {
	if len(revs) == 0 {
		fmt.Fprintf(out, "no revisions stored for %s\n", path)
		return
	}

	fmt.Fprintln(out, styles.FilePath.Render(path))
	for _, rev := range revs {
		state := styles.Success.Render("ok")
		if rev.HasError {
			state = styles.Error.Render("errors")
		}
		fmt.Fprintf(out, "  %4d  %s  %6d bytes  %4d reused  %s\n",
			rev.Number,
			rev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(rev.Content),
			rev.Stats.SubtreesReused,
			state,
		)
	}
}

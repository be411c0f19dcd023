package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/session"
	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/fsutil"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
	"github.com/yaklabco/djtree/pkg/textedit"
)

type editFlags struct {
	start    int
	end      int
	at       string
	text     string
	showTree bool
	write    bool
	backup   bool
	diff     bool
}

func newEditCommand() *cobra.Command {
	flags := &editFlags{start: -1, end: -1}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Apply an edit and reparse incrementally",
		Long: `Replace a byte range of a template, reparse it incrementally against
the tree of the original text, and report how much of the old tree was
reused. The incremental tree is always compared with a full parse of the
edited text.

The range is given either as byte offsets (--start, --end) or as a 1-based
line:column position (--at). Without --end the edit is an insertion.

Examples:
  djtree edit page.html --start 10 --text "x"
  djtree edit page.html --at 3:5 --end 42 --text ""
  djtree edit page.html --at 1:1 --text "{% load static %}" --tree
  djtree edit page.html --start 0 --end 4 --text "<div>" --write --backup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.start, "start", -1, "byte offset where the edit starts")
	cmd.Flags().IntVar(&flags.end, "end", -1, "byte offset where the replaced range ends (default: start)")
	cmd.Flags().StringVar(&flags.at, "at", "", "line:column where the edit starts")
	cmd.Flags().StringVar(&flags.text, "text", "", "replacement text")
	cmd.Flags().BoolVar(&flags.showTree, "tree", false, "print the new tree as an S-expression")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of the edited text")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the edited text back to the file")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a "+fsutil.BackupSuffix+" copy of the file before writing")

	return cmd
}

func runEdit(cmd *cobra.Command, path string, flags *editFlags) error {
	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	content, info, err := readEditable(cmd, path, flags)
	if err != nil {
		return err
	}
	snap := source.NewSnapshot(path, content)

	edit, err := resolveEdit(snap, flags)
	if err != nil {
		return err
	}
	edits, err := textedit.Prepare([]textedit.TextEdit{edit}, len(content))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	parser, err := runner.New(cfg, commandLogger(cmd)).NewParser()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	old, err := parser.Parse(ctx, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	edited := textedit.Apply(content, edits)
	for _, e := range textedit.SyntaxEdits(content, edits) {
		old = old.Edit(e)
	}

	tree, fellBack, err := session.ParseIncremental(ctx, parser, edited, old)
	if err != nil {
		return fmt.Errorf("reparse %s: %w", path, err)
	}
	full, err := parser.Parse(ctx, edited)
	if err != nil {
		return fmt.Errorf("parse edited %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))
	writeEditReport(out, styles, edit, tree.Stats(), full.Stats())
	if fellBack {
		fmt.Fprintf(out, "  %-12s%s\n", "fallback:", styles.Warning.Render("full parse"))
	}

	if diffA, diffB := syntax.FirstDifference(tree.RootNode(), full.RootNode()); !diffA.IsNull() || !diffB.IsNull() {
		fmt.Fprintf(out, "  %-12s%s\n", "equivalent:", styles.Failure.Render("no"))
		return fmt.Errorf("incremental tree differs from full parse: %s vs %s",
			describeNode(diffA), describeNode(diffB))
	}
	fmt.Fprintf(out, "  %-12s%s\n", "equivalent:", styles.Success.Render("yes"))

	if flags.showTree {
		fmt.Fprintln(out, tree.RootNode().String())
	}
	if flags.diff {
		diff, err := textedit.Unified(documentLabel(path), content, edited)
		if err != nil {
			return err
		}
		fmt.Fprint(out, diff)
	}

	if info != nil {
		if err := fsutil.WriteBack(ctx, info, edited, flags.backup); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}

	editedSnap := source.NewSnapshot(path, edited)
	writeDiagnostics(cmd.ErrOrStderr(), styles, documentLabel(path), editedSnap, tree.Diagnostics(), true)
	return nil
}

// readEditable reads the document. With --write it also records the file
// state so the write-back can detect concurrent modification.
func readEditable(cmd *cobra.Command, path string, flags *editFlags) ([]byte, *fsutil.FileInfo, error) {
	if !flags.write {
		if flags.backup {
			return nil, nil, fmt.Errorf("%w: --backup requires --write", ErrUsage)
		}
		content, err := readDocument(cmd, path)
		return content, nil, err
	}
	if path == stdinPath {
		return nil, nil, fmt.Errorf("%w: --write cannot be used with stdin", ErrUsage)
	}

	content, info, err := fsutil.ReadFile(cmd.Context(), path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return content, info, nil
}

// resolveEdit builds the edit described by flags in content coordinates.
func resolveEdit(snap *source.Snapshot, flags *editFlags) (textedit.TextEdit, error) {
	start := flags.start
	if flags.at != "" {
		if start >= 0 {
			return textedit.TextEdit{}, fmt.Errorf("%w: --at and --start are mutually exclusive", ErrUsage)
		}
		offset, err := parsePosition(snap, flags.at)
		if err != nil {
			return textedit.TextEdit{}, err
		}
		start = offset
	}
	if start < 0 {
		return textedit.TextEdit{}, fmt.Errorf("%w: one of --start or --at is required", ErrUsage)
	}

	end := flags.end
	if end < 0 {
		end = start
	}
	return textedit.TextEdit{StartOffset: start, EndOffset: end, NewText: flags.text}, nil
}

// parsePosition converts "line:column" (1-based) to a byte offset.
func parsePosition(snap *source.Snapshot, pos string) (int, error) {
	lineStr, colStr, ok := strings.Cut(pos, ":")
	line, lineErr := strconv.Atoi(lineStr)
	col, colErr := strconv.Atoi(colStr)
	if !ok || lineErr != nil || colErr != nil {
		return 0, fmt.Errorf("%w: position %q must be line:column", ErrUsage, pos)
	}
	offset, ok := snap.Offset(line, col)
	if !ok {
		return 0, fmt.Errorf("%w: position %s is outside the document", ErrUsage, pos)
	}
	return offset, nil
}

func writeEditReport(out io.Writer, styles *pretty.Styles, edit textedit.TextEdit, incremental, full syntax.Stats) {
	row := func(label, value string) {
		fmt.Fprintf(out, "  %-12s%s\n", label+":", value)
	}

	row("edit", fmt.Sprintf("[%d, %d) -> %d bytes", edit.StartOffset, edit.EndOffset, len(edit.NewText)))
	row("reused", styles.SummaryValue.Render(fmt.Sprintf("%d subtrees (%d bytes)",
		incremental.SubtreesReused, incremental.BytesReused)))
	row("scanned", styles.SummaryValue.Render(fmt.Sprintf("%d tokens (full parse: %d)",
		incremental.TokensScanned, full.TokensScanned)))
	if incremental.Recoveries > 0 {
		row("recoveries", strconv.Itoa(incremental.Recoveries))
	}
}

func describeNode(node syntax.Node) string {
	if node.IsNull() {
		return "nothing"
	}
	return fmt.Sprintf("%s [%s-%s]", node.Kind(), node.StartPoint(), node.EndPoint())
}

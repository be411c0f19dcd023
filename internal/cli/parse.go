package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/config"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

type parseFlags struct {
	format        string
	width         int
	showExtras    bool
	showAnonymous bool
	noContext     bool
	quiet         bool
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a template and print its syntax tree",
		Long: `Parse a single template and print its syntax tree.

Syntax errors never stop the parse. They appear as ERROR nodes in the tree
and are listed as diagnostics on stderr; the command then exits with 1.

Examples:
  djtree parse page.html                  # S-expression
  djtree parse --format pretty page.html  # Tree with ranges and leaf text
  echo '{{ a|upper }}' | djtree parse -   # Read stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.TreeFormatSExpr), "tree format: sexp, pretty, json")
	cmd.Flags().IntVar(&flags.width, "width", 0, "truncate pretty output to this width (0 = terminal width)")
	cmd.Flags().BoolVar(&flags.showExtras, "extras", false, "include whitespace and trim markers")
	cmd.Flags().BoolVar(&flags.showAnonymous, "anonymous", false, "include punctuation nodes in pretty output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in diagnostics")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the tree")

	return cmd
}

func runParse(cmd *cobra.Command, path string, flags *parseFlags) error {
	format := config.TreeFormat(flags.format)
	if !format.IsValid() {
		return fmt.Errorf("%w: unknown tree format %q", ErrUsage, flags.format)
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	content, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	parser, err := runner.New(cfg, commandLogger(cmd)).NewParser()
	if err != nil {
		return err
	}
	tree, err := parser.Parse(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if !flags.quiet {
		if err := writeTree(out, tree, format, cfg.Color, flags); err != nil {
			return err
		}
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, cmd.ErrOrStderr()))
	snap := source.NewSnapshot(path, content)
	writeDiagnostics(cmd.ErrOrStderr(), styles, documentLabel(path), snap, tree.Diagnostics(), !flags.noContext)

	if hasErrors(tree.Diagnostics()) {
		return ErrSyntaxErrorsFound
	}
	return nil
}

func writeTree(out io.Writer, tree *syntax.Tree, format config.TreeFormat, colorMode string, flags *parseFlags) error {
	root := tree.RootNode()

	switch format {
	case config.TreeFormatPretty:
		width := flags.width
		if width == 0 {
			width = pretty.TerminalWidth(out)
		}
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
		_, err := io.WriteString(out, styles.RenderTree(root, tree.Text(), pretty.TreeOptions{
			Width:         width,
			ShowExtras:    flags.showExtras,
			ShowAnonymous: flags.showAnonymous,
		}))
		return err
	case config.TreeFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(jsonTree(root, tree.Text(), flags.showExtras))
	default:
		_, err := fmt.Fprintln(out, root.String())
		return err
	}
}

// jsonNode is the JSON form of a syntax node.
type jsonNode struct {
	Kind     string       `json:"kind"`
	Named    bool         `json:"named"`
	Extra    bool         `json:"extra,omitempty"`
	Error    bool         `json:"error,omitempty"`
	Range    syntax.Range `json:"range"`
	Text     string       `json:"text,omitempty"`
	Children []jsonNode   `json:"children,omitempty"`
}

func jsonTree(node syntax.Node, text []byte, showExtras bool) jsonNode {
	out := jsonNode{
		Kind:  node.Kind(),
		Named: node.IsNamed(),
		Extra: node.IsExtra(),
		Error: node.IsError(),
		Range: node.Range(),
	}
	if node.ChildCount() == 0 {
		out.Text = node.Content(text)
		return out
	}
	for _, child := range node.Children() {
		if child.IsExtra() && !showExtras {
			continue
		}
		out.Children = append(out.Children, jsonTree(child, text, showExtras))
	}
	return out
}

// writeDiagnostics prints diags for one document with optional source lines.
func writeDiagnostics(w io.Writer, styles *pretty.Styles, name string, snap *source.Snapshot, diags []syntax.Diagnostic, showContext bool) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w, styles.FormatFileHeader(name, len(diags)))
	for _, diag := range diags {
		line := ""
		if showContext {
			line = string(snap.LineContent(diag.Range.StartPoint.Row + 1))
		}
		fmt.Fprint(w, styles.FormatDiagnostic(name, diag, showContext, line))
	}
}

func hasErrors(diags []syntax.Diagnostic) bool {
	for _, diag := range diags {
		if diag.Kind.IsError() {
			return true
		}
	}
	return false
}

func documentLabel(path string) string {
	if path == stdinPath {
		return "<stdin>"
	}
	return path
}

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/ui/pretty"
	"github.com/yaklabco/djtree/pkg/runner"
	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

// maxQueryText bounds the node text shown per query match.
const maxQueryText = 40

type queryFlags struct {
	kind  string
	at    string
	named bool
}

func newQueryCommand() *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query <file|->",
		Short: "Find nodes by kind or position",
		Long: `Find syntax nodes in a template.

With --at, the cursor descends from the root to the innermost node at the
position and prints the path. With --kind, only nodes of that kind are
printed: every such node in the document, or only the enclosing ones when
--at is also given.

Examples:
  djtree query --kind variable_name page.html
  djtree query --at 12:7 page.html
  djtree query --at 12:7 --kind paired_statement page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "node kind to match")
	cmd.Flags().StringVar(&flags.at, "at", "", "line:column position to descend to")
	cmd.Flags().BoolVar(&flags.named, "named", false, "only descend through named nodes")

	return cmd
}

func runQuery(cmd *cobra.Command, path string, flags *queryFlags) error {
	if flags.kind == "" && flags.at == "" {
		return fmt.Errorf("%w: one of --kind or --at is required", ErrUsage)
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

	var matches []syntax.Node
	if flags.at != "" {
		offset, err := parsePosition(source.NewSnapshot(path, content), flags.at)
		if err != nil {
			return err
		}
		for _, node := range descend(tree.RootNode(), offset, flags.named) {
			if flags.kind == "" || node.Kind() == flags.kind {
				matches = append(matches, node)
			}
		}
	} else {
		matches = syntax.FindByKind(tree.RootNode(), flags.kind)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out))
	writeMatches(out, styles, matches, tree.Text(), flags.at != "" && flags.kind == "")
	return nil
}

// descend returns the path from root to the innermost node containing
// offset. An offset at a node boundary belongs to the node that starts there.
func descend(root syntax.Node, offset int, named bool) []syntax.Node {
	cursor := syntax.NewTreeCursor(root)
	path := []syntax.Node{root}

	for cursor.GotoFirstChildForByte(offset) >= 0 {
		node := cursor.Node()
		if node.StartByte() > offset {
			break
		}
		if named && !node.IsNamed() && !node.IsError() {
			continue
		}
		path = append(path, node)
	}
	return path
}

func writeMatches(out io.Writer, styles *pretty.Styles, nodes []syntax.Node, text []byte, indent bool) {
	for depth, node := range nodes {
		prefix := ""
		if indent {
			prefix = fmt.Sprintf("%*s", depth*2, "")
		}

		kind := styles.NodeNamed.Render(node.Kind())
		if node.IsError() {
			kind = styles.NodeError.Render(node.Kind())
		}
		line := fmt.Sprintf("%s%s  %s", prefix,
			styles.NodeRange.Render(fmt.Sprintf("%s-%s", node.StartPoint(), node.EndPoint())),
			kind,
		)
		if node.ChildCount() == 0 {
			content := node.Content(text)
			if runes := []rune(content); len(runes) > maxQueryText {
				content = string(runes[:maxQueryText]) + "…"
			}
			line += "  " + styles.NodeText.Render(strconv.Quote(content))
		}
		fmt.Fprintln(out, line)
	}
}

package pretty

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// minLeafWidth keeps leaf text visible on very narrow terminals.
const minLeafWidth = 8

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// Width truncates leaf text so lines fit. Zero disables truncation.
	Width int

	// ShowExtras includes whitespace and trim markers.
	ShowExtras bool

	// ShowAnonymous includes unnamed punctuation nodes.
	ShowAnonymous bool
}

// RenderTree renders the subtree at node with lipgloss tree connectors.
// Leaves show their quoted text.
func (s *Styles) RenderTree(node syntax.Node, text []byte, opts TreeOptions) string {
	if node.IsNull() {
		return ""
	}
	root := tree.Root(s.nodeLabel(node, text, 0, opts)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(s.TreeBranch)
	s.addChildren(root, node, text, 1, opts)
	return root.String() + "\n"
}

func (s *Styles) addChildren(parent *tree.Tree, node syntax.Node, text []byte, depth int, opts TreeOptions) {
	for _, child := range node.Children() {
		if child.IsExtra() && !opts.ShowExtras {
			continue
		}
		if !child.IsNamed() && !child.IsError() && !opts.ShowAnonymous {
			continue
		}

		label := s.nodeLabel(child, text, depth, opts)
		if child.ChildCount() == 0 {
			parent.Child(label)
			continue
		}

		sub := tree.Root(label).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(s.TreeBranch)
		s.addChildren(sub, child, text, depth+1, opts)
		parent.Child(sub)
	}
}

func (s *Styles) nodeLabel(node syntax.Node, text []byte, depth int, opts TreeOptions) string {
	var kind string
	switch {
	case node.IsError():
		kind = s.NodeError.Render(node.Kind())
	case node.IsExtra():
		kind = s.NodeExtra.Render(node.Kind())
	case node.IsNamed():
		kind = s.NodeNamed.Render(node.Kind())
	default:
		kind = s.NodeAnonymous.Render(strconv.Quote(node.Kind()))
	}

	label := kind + " " + s.NodeRange.Render(fmt.Sprintf("[%s-%s]", node.StartPoint(), node.EndPoint()))
	if node.ChildCount() > 0 {
		return label
	}

	leaf := strconv.Quote(node.Content(text))
	if opts.Width > 0 {
		// Connectors take four columns per level.
		budget := max(opts.Width-depth*4-lipgloss.Width(label)-1, minLeafWidth)
		leaf = truncate(leaf, budget)
	}
	return label + " " + s.NodeText.Render(leaf)
}

func truncate(text string, width int) string {
	if len(text) <= width {
		return text
	}
	const ellipsis = "…"
	cut := width - 1
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + ellipsis
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

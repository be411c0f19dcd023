package syntax

import "strings"

// Node is a positioned view of a subtree inside a Tree. The zero Node is
// null.
type Node struct {
	sub        *subtree
	tree       *Tree
	start      int
	startPoint Point
	parent     *Node
	index      int
}

// IsNull reports whether the node is the zero value.
func (n Node) IsNull() bool {
	return n.sub == nil
}

// Tree returns the tree the node belongs to.
func (n Node) Tree() *Tree {
	return n.tree
}

// Symbol returns the node's grammar symbol after aliasing.
func (n Node) Symbol() Symbol {
	return n.sub.symbol
}

// Kind returns the symbol name, for example "paired_statement" or "{%".
func (n Node) Kind() string {
	return n.tree.language.Table.SymbolName(n.sub.symbol)
}

// IsNamed reports whether the node is a named node.
func (n Node) IsNamed() bool {
	return n.sub.isError() || n.tree.language.Table.Symbol(n.sub.symbol).Named
}

// IsExtra reports whether the node is an extra such as whitespace.
func (n Node) IsExtra() bool {
	return n.sub.isExtra()
}

// IsError reports whether the node is an ERROR node or error token.
func (n Node) IsError() bool {
	return n.sub.isError()
}

// HasError reports whether the node is or contains an error.
func (n Node) HasError() bool {
	return n.sub.hasError()
}

// StartByte returns the absolute start offset.
func (n Node) StartByte() int {
	return n.start
}

// EndByte returns the absolute end offset.
func (n Node) EndByte() int {
	return n.start + n.sub.size
}

// StartPoint returns the absolute start point.
func (n Node) StartPoint() Point {
	return n.startPoint
}

// EndPoint returns the absolute end point.
func (n Node) EndPoint() Point {
	return n.startPoint.Add(n.sub.extent)
}

// Range returns the node's span.
func (n Node) Range() Range {
	return Range{
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		StartPoint: n.StartPoint(),
		EndPoint:   n.EndPoint(),
	}
}

// Content returns the node's text within source.
func (n Node) Content(source []byte) string {
	end := min(n.EndByte(), len(source))
	start := min(n.start, end)
	return string(source[start:end])
}

// ChildCount returns the number of children.
func (n Node) ChildCount() int {
	return len(n.sub.children)
}

// Child returns the i-th child, or a null node when out of range.
func (n Node) Child(i int) Node {
	if i < 0 || i >= len(n.sub.children) {
		return Node{}
	}
	start, point := n.start, n.startPoint
	for _, sibling := range n.sub.children[:i] {
		start += sibling.size
		point = point.Add(sibling.extent)
	}
	return n.childAt(i, start, point)
}

func (n Node) childAt(i, start int, point Point) Node {
	parent := n
	return Node{
		sub:        n.sub.children[i],
		tree:       n.tree,
		start:      start,
		startPoint: point,
		parent:     &parent,
		index:      i,
	}
}

// Children returns every child in order.
func (n Node) Children() []Node {
	if len(n.sub.children) == 0 {
		return nil
	}
	parent := n
	nodes := make([]Node, len(n.sub.children))
	start, point := n.start, n.startPoint
	for i, child := range n.sub.children {
		nodes[i] = Node{
			sub:        child,
			tree:       n.tree,
			start:      start,
			startPoint: point,
			parent:     &parent,
			index:      i,
		}
		start += child.size
		point = point.Add(child.extent)
	}
	return nodes
}

// NamedChildren returns the named children in order.
func (n Node) NamedChildren() []Node {
	var named []Node
	for _, child := range n.Children() {
		if child.IsNamed() {
			named = append(named, child)
		}
	}
	return named
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	count := 0
	for _, child := range n.sub.children {
		if child.isError() || n.tree.language.Table.Symbol(child.symbol).Named {
			count++
		}
	}
	return count
}

// NamedChild returns the i-th named child, or a null node.
func (n Node) NamedChild(i int) Node {
	named := n.NamedChildren()
	if i < 0 || i >= len(named) {
		return Node{}
	}
	return named[i]
}

// Parent returns the parent node, or a null node at the root.
func (n Node) Parent() Node {
	if n.parent == nil {
		return Node{}
	}
	return *n.parent
}

// NextSibling returns the following sibling, or a null node.
func (n Node) NextSibling() Node {
	if n.parent == nil {
		return Node{}
	}
	next := n.index + 1
	if next >= len(n.parent.sub.children) {
		return Node{}
	}
	return n.parent.childAt(next, n.EndByte(), n.EndPoint())
}

// PrevSibling returns the preceding sibling, or a null node.
func (n Node) PrevSibling() Node {
	if n.parent == nil || n.index == 0 {
		return Node{}
	}
	return n.parent.Child(n.index - 1)
}

// Same reports whether n and other share the same underlying subtree. Nodes
// reused by an incremental parse are the same as their old counterparts.
func (n Node) Same(other Node) bool {
	return n.sub != nil && n.sub == other.sub
}

// String returns an S-expression of the named nodes below n.
func (n Node) String() string {
	var sb strings.Builder
	n.writeSExpr(&sb)
	return sb.String()
}

func (n Node) writeSExpr(sb *strings.Builder) {
	sb.WriteString("(")
	sb.WriteString(n.Kind())
	for _, child := range n.Children() {
		if !child.IsNamed() {
			continue
		}
		sb.WriteString(" ")
		child.writeSExpr(sb)
	}
	sb.WriteString(")")
}

package syntax

// cursorFrame is one level of a TreeCursor path.
type cursorFrame struct {
	node Node
}

// TreeCursor walks a tree keeping the path from its starting node.
type TreeCursor struct {
	stack []cursorFrame
}

// NewTreeCursor returns a cursor positioned at node.
func NewTreeCursor(node Node) *TreeCursor {
	return &TreeCursor{stack: []cursorFrame{{node: node}}}
}

// Node returns the current node.
func (c *TreeCursor) Node() Node {
	return c.stack[len(c.stack)-1].node
}

// Depth returns the number of levels below the starting node.
func (c *TreeCursor) Depth() int {
	return len(c.stack) - 1
}

// Reset moves the cursor to node and forgets the previous path.
func (c *TreeCursor) Reset(node Node) {
	c.stack = append(c.stack[:0], cursorFrame{node: node})
}

// GotoParent moves to the parent. It returns false at the starting node.
func (c *TreeCursor) GotoParent() bool {
	if len(c.stack) <= 1 {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

// GotoFirstChild moves to the first child.
func (c *TreeCursor) GotoFirstChild() bool {
	cur := c.Node()
	if len(cur.sub.children) == 0 {
		return false
	}
	c.push(cur, 0, cur.start, cur.startPoint)
	return true
}

// GotoLastChild moves to the last child.
func (c *TreeCursor) GotoLastChild() bool {
	cur := c.Node()
	count := len(cur.sub.children)
	if count == 0 {
		return false
	}
	last := cur.sub.children[count-1]
	end := cur.EndByte()
	c.push(cur, count-1, end-last.size, pointBefore(cur, count-1))
	return true
}

// GotoNextSibling moves to the following sibling.
func (c *TreeCursor) GotoNextSibling() bool {
	if len(c.stack) <= 1 {
		return false
	}
	cur := c.Node()
	parent := c.stack[len(c.stack)-2].node
	if cur.index+1 >= len(parent.sub.children) {
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.push(parent, cur.index+1, cur.EndByte(), cur.EndPoint())
	return true
}

// GotoPrevSibling moves to the preceding sibling.
func (c *TreeCursor) GotoPrevSibling() bool {
	if len(c.stack) <= 1 {
		return false
	}
	cur := c.Node()
	if cur.index == 0 {
		return false
	}
	parent := c.stack[len(c.stack)-2].node
	prev := parent.sub.children[cur.index-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.push(parent, cur.index-1, cur.start-prev.size, pointBefore(parent, cur.index-1))
	return true
}

// GotoFirstChildForByte moves to the first child that ends after offset and
// returns its index, or -1 when there is none.
func (c *TreeCursor) GotoFirstChildForByte(offset int) int {
	cur := c.Node()
	start, point := cur.start, cur.startPoint
	for i, child := range cur.sub.children {
		if start+child.size > offset {
			c.push(cur, i, start, point)
			return i
		}
		start += child.size
		point = point.Add(child.extent)
	}
	return -1
}

// GotoDescendant moves to the first node below the current one, in
// pre-order, for which filter returns true. The cursor does not move when
// no node matches.
func (c *TreeCursor) GotoDescendant(filter func(Node) bool) bool {
	base := len(c.stack)
	saved := append([]cursorFrame(nil), c.stack...)

	for {
		if c.GotoFirstChild() {
			if filter(c.Node()) {
				return true
			}
			continue
		}
		for {
			if len(c.stack) <= base {
				c.stack = saved
				return false
			}
			if c.GotoNextSibling() {
				break
			}
			c.GotoParent()
		}
		if filter(c.Node()) {
			return true
		}
	}
}

func (c *TreeCursor) push(parent Node, index, start int, point Point) {
	c.stack = append(c.stack, cursorFrame{node: parent.childAt(index, start, point)})
}

// pointBefore returns the start point of child i of parent.
func pointBefore(parent Node, i int) Point {
	point := parent.startPoint
	for _, sibling := range parent.sub.children[:i] {
		point = point.Add(sibling.extent)
	}
	return point
}

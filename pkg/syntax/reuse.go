package syntax

// reuser offers subtrees of an old tree to an incremental parse.
type reuser struct {
	old   *Tree
	edits *editMap
	iter  *reuseIterator
}

// candidate returns a lookahead whose token is the first leaf of a reusable
// old subtree at v's position, or nil.
func (r *reuser) candidate(e *engine, v *version, valid TokenSet) *lookahead {
	pos := v.position()
	oldPos, oldLimit, ok := r.edits.lookup(pos)
	if !ok {
		return nil
	}
	if r.old.scannerStateAt(oldPos) != v.scan {
		return nil
	}

	chain := r.iter.chainAt(oldPos, oldLimit)
	if len(chain) == 0 {
		return nil
	}
	leaf := chain[len(chain)-1]
	if e.table.ValidTokens(leaf.lexState) != valid {
		return nil
	}

	return &lookahead{
		tok: Token{
			Symbol:       leaf.lead,
			StartByte:    pos,
			EndByte:      pos + leaf.size,
			LookaheadEnd: pos + leaf.lookaheadEnd(),
		},
		before:   v.scan,
		after:    leaf.after,
		lexState: v.head.state,
		chain:    chain,
		oldStart: oldPos,
	}
}

// shiftReused pushes the largest subtree of la's chain that fits the current
// state. It returns false when only a fresh leaf can be shifted.
func (e *engine) shiftReused(v *version, la *lookahead, shiftTarget StateID) bool {
	state := v.head.state
	for _, node := range la.chain {
		if node.isLeaf() {
			e.recordReuse(v, node)
			v.head = v.head.push(shiftTarget, node)
			v.scan = node.after
			v.next = nil
			return true
		}
		if node.parseState != state {
			continue
		}
		target, ok := e.table.Goto(state, node.symbol)
		if !ok {
			continue
		}
		e.recordReuse(v, node)
		v.head = v.head.push(target, node)
		v.scan = e.reuse.old.scannerStateAt(la.oldStart + node.size)
		v.next = nil
		return true
	}
	return false
}

func (e *engine) recordReuse(v *version, node *subtree) {
	v.reused = &reuseRecord{newStart: v.position(), state: v.scan, prev: v.reused}
	e.stats.SubtreesReused++
	e.stats.BytesReused += node.size
}

// reusable reports whether an old subtree starting at oldPos may be reused
// when unchanged bytes end at oldLimit.
func reusable(node *subtree, oldPos, oldLimit int) bool {
	switch {
	case node.size == 0,
		node.isHidden(),
		node.hasError(),
		node.has(flagFragile),
		!node.has(flagHasLead):
		return false
	case node.isLeaf() && node.symbol != node.lead:
		// Aliased leaves only make sense in the parent that aliased them.
		return false
	}
	return oldPos+node.lookaheadEnd() <= oldLimit
}

// reuseIterator walks an old tree forward, finding the subtrees that start
// at increasing offsets.
type reuseIterator struct {
	root  *subtree
	stack []iterFrame
	last  int
}

type iterFrame struct {
	node       *subtree
	index      int
	childStart int
}

func newReuseIterator(root *subtree) *reuseIterator {
	it := &reuseIterator{root: root}
	it.reset()
	return it
}

func (it *reuseIterator) reset() {
	it.stack = append(it.stack[:0], iterFrame{node: it.root})
	it.last = 0
}

// chainAt returns the reusable subtrees starting at oldPos, outermost first,
// ending with their first leaf. It returns nil when that leaf is not
// reusable.
func (it *reuseIterator) chainAt(oldPos, oldLimit int) []*subtree {
	if oldPos < it.last {
		it.reset()
	}
	it.last = oldPos

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		children := top.node.children
		for top.index < len(children) && top.childStart+children[top.index].size <= oldPos {
			top.childStart += children[top.index].size
			top.index++
		}
		if top.index == len(children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		child := children[top.index]
		if top.childStart > oldPos {
			return nil
		}
		if top.childStart == oldPos {
			return leftmostChain(child, oldPos, oldLimit)
		}
		if child.isLeaf() {
			return nil
		}
		it.stack = append(it.stack, iterFrame{node: child, childStart: top.childStart})
	}

	return nil
}

func leftmostChain(node *subtree, oldPos, oldLimit int) []*subtree {
	var chain []*subtree
	for {
		if reusable(node, oldPos, oldLimit) {
			chain = append(chain, node)
		}
		if node.isLeaf() {
			break
		}
		if len(node.children) == 0 {
			return nil
		}
		node = node.children[0]
	}
	if len(chain) == 0 || !chain[len(chain)-1].isLeaf() {
		return nil
	}
	return chain
}

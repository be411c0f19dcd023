package syntax

import "sort"

// stateEntry records the scanner state in effect from offset onward.
type stateEntry struct {
	offset int
	state  ScannerState
}

// stateTable maps token boundaries to scanner states. Only changes are
// stored; entries are sorted by offset.
type stateTable []stateEntry

// buildStateTable walks the leaves of root and records every boundary at
// which the scanner state changes.
func buildStateTable(root *subtree, initial ScannerState) stateTable {
	var table stateTable
	current := initial
	offset := 0

	var visit func(node *subtree)
	visit = func(node *subtree) {
		if node.isLeaf() {
			offset += node.size
			if node.after != current {
				table = append(table, stateEntry{offset: offset, state: node.after})
				current = node.after
			}
			return
		}
		for _, child := range node.children {
			visit(child)
		}
	}
	visit(root)

	return table
}

// lookup returns the state of the last entry at or before offset.
func (st stateTable) lookup(offset int, initial ScannerState) ScannerState {
	idx := sort.Search(len(st), func(i int) bool {
		return st[i].offset > offset
	})
	if idx == 0 {
		return initial
	}
	return st[idx-1].state
}

package syntax

// stackEntry is one link of a persistent parse stack. Entries are never
// modified once created, so versions share their common prefix.
type stackEntry struct {
	state StateID
	node  *subtree
	prev  *stackEntry
	// end and endPoint are the absolute position after this entry.
	end      int
	endPoint Point
	depth    int
}

func newStackBottom(state StateID) *stackEntry {
	return &stackEntry{state: state}
}

func (e *stackEntry) push(state StateID, node *subtree) *stackEntry {
	return &stackEntry{
		state:    state,
		node:     node,
		prev:     e,
		end:      e.end + node.size,
		endPoint: e.endPoint.Add(node.extent),
		depth:    e.depth + 1,
	}
}

func (e *stackEntry) isBottom() bool {
	return e.prev == nil
}

// lookahead is the token a version will act on next.
type lookahead struct {
	tok      Token
	before   ScannerState
	after    ScannerState
	lexState StateID
	// chain holds reusable old subtrees starting at tok, outermost first.
	// The last element is always the leaf for tok.
	chain []*subtree
	// oldStart is the old offset of chain[0].
	oldStart int
	// extras precede tok during recovery scanning.
	extras []*subtree
	// rescanned tokens were lexed with every terminal valid, so their leaves
	// must not be reused in a state with a narrower valid set.
	rescanned bool
}

// version is one GLR parse head.
type version struct {
	head      *stackEntry
	scan      ScannerState
	next      *lookahead
	errorCost int
	dynPrec   int
	order     int
	reused    *reuseRecord
	resynced  bool
	dead      bool
	root      *subtree
}

// reuseRecord remembers where an old subtree was pushed, so the boundary
// scanner state can be checked once the parse finishes.
type reuseRecord struct {
	newStart int
	state    ScannerState
	prev     *reuseRecord
}

func (v *version) position() int {
	return v.head.end
}

func (v *version) clone(order int) *version {
	clone := *v
	clone.order = order
	return &clone
}

// better reports whether v should be kept over other.
func (v *version) better(other *version) bool {
	if v.errorCost != other.errorCost {
		return v.errorCost < other.errorCost
	}
	if v.dynPrec != other.dynPrec {
		return v.dynPrec > other.dynPrec
	}
	return v.order < other.order
}

// sameConfiguration reports whether v and other will parse the remaining
// input identically.
func (v *version) sameConfiguration(other *version) bool {
	if v.head.state != other.head.state || v.position() != other.position() || v.scan != other.scan {
		return false
	}
	if v.next == nil || other.next == nil {
		return v.next == other.next
	}
	return v.next.tok == other.next.tok && v.next.after == other.next.after
}

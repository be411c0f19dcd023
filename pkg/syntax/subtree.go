package syntax

type subtreeFlags uint8

// Production numbers for subtrees that were not built by a reduce.
const (
	leafProduction  = -1
	errorProduction = -2
)

const (
	flagExtra subtreeFlags = 1 << iota
	flagError
	flagHasError
	flagHidden
	flagFragile
	flagHasLead
	// flagSpent marks a hidden node whose children slice has been extended
	// in place by a later reduce; it must be copied before any other append.
	// It is the one bit set after construction. Only hidden nodes carry it,
	// and a hidden node never leaves the parse that built it: nodeBuilder
	// flattens it into its parent, and reuse skips hidden nodes. No finished
	// tree can observe the write.
	flagSpent
)

// subtree is an immutable parse node, apart from flagSpent on hidden nodes
// still on a parse stack. Positions are relative: a subtree only knows its
// size and extent, so it can be shared by trees in which it starts at
// different offsets.
type subtree struct {
	symbol     Symbol
	size       int
	extent     Point
	children   []*subtree
	production int

	// parseState is the state the node's first token was shifted in.
	parseState StateID
	// lexState is the state whose valid set lexed the first token.
	lexState StateID
	// lead is the first terminal of the node.
	lead Symbol
	// lookahead counts the bytes past the end that were examined while
	// building the node.
	lookahead int
	// after is the scanner state following a leaf.
	after ScannerState
	// unexpected is the token an ERROR node was created for.
	unexpected Symbol

	flags subtreeFlags
}

func (s *subtree) has(flag subtreeFlags) bool {
	return s.flags&flag != 0
}

func (s *subtree) isLeaf() bool {
	return s.production == leafProduction
}

func (s *subtree) isExtra() bool {
	return s.has(flagExtra)
}

func (s *subtree) isError() bool {
	return s.has(flagError)
}

func (s *subtree) hasError() bool {
	return s.has(flagError) || s.has(flagHasError)
}

func (s *subtree) isHidden() bool {
	return s.has(flagHidden)
}

// lookaheadEnd returns the relative offset one past the last examined byte.
func (s *subtree) lookaheadEnd() int {
	return s.size + s.lookahead
}

// newLeaf builds a leaf for a token.
func newLeaf(tok Token, text []byte, after ScannerState, parseState, lexState StateID, meta SymbolMetadata, errSym Symbol) *subtree {
	leaf := &subtree{
		symbol:     tok.Symbol,
		size:       tok.EndByte - tok.StartByte,
		extent:     extentOf(text[tok.StartByte:tok.EndByte]),
		production: leafProduction,
		parseState: parseState,
		lexState:   lexState,
		lead:       tok.Symbol,
		lookahead:  max(tok.LookaheadEnd-tok.EndByte, 0),
		after:      after,
		flags:      flagHasLead,
	}
	if meta.Extra {
		leaf.flags |= flagExtra
	}
	if tok.Symbol == errSym {
		leaf.flags |= flagError
	}
	return leaf
}

// withSymbol returns a copy of s carrying an alias symbol.
func (s *subtree) withSymbol(sym Symbol) *subtree {
	clone := *s
	clone.symbol = sym
	return &clone
}

// asExtra returns s marked as an extra.
func (s *subtree) asExtra() *subtree {
	if s.isExtra() {
		return s
	}
	clone := *s
	clone.flags |= flagExtra
	return &clone
}

// nodeBuilder accumulates the children of a new interior node.
type nodeBuilder struct {
	children  []*subtree
	size      int
	extent    Point
	lookEnd   int
	flags     subtreeFlags
	lead      Symbol
	lexState  StateID
	haveFirst bool
}

// add appends one popped entry, flattening hidden nodes.
func (b *nodeBuilder) add(child *subtree) {
	if !b.haveFirst && child.has(flagHasLead) {
		b.haveFirst = true
		b.lead = child.lead
		b.lexState = child.lexState
		b.flags |= flagHasLead
	}

	b.lookEnd = max(b.lookEnd, b.size+child.lookaheadEnd())
	b.size += child.size
	b.extent = b.extent.Add(child.extent)
	if child.hasError() {
		b.flags |= flagHasError
	}
	if child.has(flagFragile) {
		b.flags |= flagFragile
	}

	if !child.isHidden() {
		b.children = append(b.children, child)
		return
	}

	if len(b.children) == 0 && !child.has(flagSpent) {
		// The hidden node is the first child and nobody else has extended its
		// backing array: reuse it, so left-recursive lists grow in place.
		child.flags |= flagSpent
		b.children = child.children
		return
	}
	b.children = append(b.children, child.children...)
}

// build finishes the node.
func (b *nodeBuilder) build(sym Symbol, production int, parseState StateID, extraLookEnd int) *subtree {
	node := &subtree{
		symbol:     sym,
		size:       b.size,
		extent:     b.extent,
		children:   b.children,
		production: production,
		parseState: parseState,
		lexState:   b.lexState,
		lead:       b.lead,
		flags:      b.flags,
	}
	lookEnd := max(b.lookEnd, extraLookEnd)
	node.lookahead = max(lookEnd-node.size, 0)
	return node
}

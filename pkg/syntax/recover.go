package syntax

import (
	"fmt"
	"slices"
)

// recover resumes a version that has no action for its lookahead. It looks
// for the cheapest way to continue: skip k tokens and pop stack entries,
// ordered by k plus the number of popped non-extra entries, then by depth.
// The popped subtrees and skipped tokens are wrapped in an ERROR node pushed
// as an extra.
func (e *engine) recover(v *version) {
	e.stats.Recoveries++
	failing := v.next

	// entries[d] is the stack top after popping d entries; popCost[d] counts
	// the non-extra entries among them.
	var entries []*stackEntry
	popCost := []int{0}
	for head := v.head; ; head = head.prev {
		entries = append(entries, head)
		if head.isBottom() {
			break
		}
		cost := popCost[len(popCost)-1]
		if !head.node.isExtra() {
			cost++
		}
		popCost = append(popCost, cost)
	}
	maxDepth := len(entries) - 1

	// Popping an extra leaves the state unchanged, so a depth whose last
	// popped entry is an extra repeats the depth above it.
	canPopTo := func(d int) bool {
		return d == 0 || !entries[d-1].node.isExtra()
	}

	minSkip := 0
	if failing.tok.StartByte == e.lastRecovery {
		// Recovering twice at the same token means the previous repair
		// led straight back here; the token has to go.
		minSkip = 1
	}
	e.lastRecovery = failing.tok.StartByte

	tokens := []*lookahead{failing}
	tokenAt := func(k int) *lookahead {
		for len(tokens) <= k {
			last := tokens[len(tokens)-1]
			if last.tok.Symbol == e.table.EndSymbol() {
				return nil
			}
			tokens = append(tokens, e.scanRecovery(last.tok.EndByte, last.after, v.head.state))
		}
		return tokens[k]
	}

	// crossesResume reports whether skipping k tokens from depth d passes a
	// token that a deeper entry could resume at for the same cost. Such a
	// token usually opens the next construct, which must stay out of the
	// ERROR node.
	crossesResume := func(cost, d, k int) bool {
		for i := 1; i < k; i++ {
			for j := d + 1; j <= maxDepth; j++ {
				if !canPopTo(j) || i+popCost[j] != cost {
					continue
				}
				if e.table.HasAction(entries[j].state, tokens[i].tok.Symbol) {
					return true
				}
			}
		}
		return false
	}

	for cost := 1; cost <= e.maxSkip+popCost[maxDepth]; cost++ {
		for d := 0; d <= maxDepth && popCost[d] <= cost; d++ {
			k := cost - popCost[d]
			if !canPopTo(d) || k < minSkip || k > e.maxSkip {
				continue
			}
			if k == 0 && entries[0].end == entries[d].end {
				// Popping only empty entries would not consume anything.
				continue
			}
			resume := tokenAt(k)
			if resume == nil {
				continue
			}
			if !e.table.HasAction(entries[d].state, resume.tok.Symbol) {
				continue
			}
			if crossesResume(cost, d, k) {
				continue
			}
			e.commitRecovery(v, entries[:d+1], tokens[:k], resume, failing, cost)
			return
		}
	}

	e.resync(v, entries, failing)
}

// scanRecovery scans the next token at pos with every terminal valid,
// gathering any extras in front of it.
func (e *engine) scanRecovery(pos int, state ScannerState, parseState StateID) *lookahead {
	var extras []*subtree
	for {
		la := e.scan(pos, parseState, e.table.AllTokens(), state)
		la.rescanned = true
		if la.tok.Symbol == e.table.EndSymbol() || !e.table.Symbol(la.tok.Symbol).Extra {
			la.extras = extras
			return la
		}
		extras = append(extras, e.newLeaf(la, parseState).asExtra())
		pos, state = la.tok.EndByte, la.after
	}
}

// commitRecovery wraps the popped entries and skipped tokens in an ERROR
// node and resumes at resume.
func (e *engine) commitRecovery(v *version, entries []*stackEntry, skipped []*lookahead, resume, failing *lookahead, cost int) {
	base := entries[len(entries)-1]

	var b nodeBuilder
	for i := len(entries) - 2; i >= 0; i-- {
		addErrorChild(&b, entries[i].node)
	}
	for _, la := range skipped {
		for _, extra := range la.extras {
			b.add(extra)
		}
		b.add(e.newLeaf(la, base.state))
	}
	for _, extra := range resume.extras {
		b.add(extra)
	}

	errNode := e.errorNode(&b, base, failing, resume.tok.LookaheadEnd)
	v.head = base.push(base.state, errNode)
	// The extras now live in the ERROR node. Leave them off the stored
	// lookahead so a second recovery at this token cannot add them again.
	next := *resume
	next.extras = nil
	v.scan = resume.before
	v.next = &next
	v.errorCost += cost

	e.logger.Debug("recovered from syntax error",
		"offset", failing.tok.StartByte,
		"unexpected", e.table.SymbolName(failing.tok.Symbol),
		"skipped", len(skipped),
		"popped", len(entries)-1)
}

// resync swallows the rest of the input into an ERROR node at the
// shallowest stack entry that can handle end of input.
func (e *engine) resync(v *version, entries []*stackEntry, failing *lookahead) {
	depth := len(entries) - 1
	for d, entry := range entries {
		if e.table.HasAction(entry.state, e.table.EndSymbol()) {
			depth = d
			break
		}
	}
	base := entries[depth]

	var b nodeBuilder
	for i := depth - 1; i >= 0; i-- {
		addErrorChild(&b, entries[i].node)
	}
	textLen := len(e.text)
	if start := failing.tok.StartByte; start < textLen {
		rest := &lookahead{
			tok: Token{
				Symbol:       e.table.ErrorSymbol(),
				StartByte:    start,
				EndByte:      textLen,
				LookaheadEnd: textLen + 1,
			},
			after:    failing.before,
			lexState: base.state,
		}
		b.add(e.newLeaf(rest, base.state))
	}

	end := &lookahead{
		tok: Token{
			Symbol:       e.table.EndSymbol(),
			StartByte:    textLen,
			EndByte:      textLen,
			LookaheadEnd: textLen + 1,
		},
		before:   failing.before,
		after:    failing.before,
		lexState: base.state,
	}

	if len(b.children) > 0 {
		v.head = base.push(base.state, e.errorNode(&b, base, failing, textLen+1))
	} else {
		v.head = base
	}
	v.scan = failing.before
	v.next = end
	v.resynced = true
	v.errorCost += e.maxSkip + depth

	pos := failing.tok.StartByte
	e.events = append(e.events, Diagnostic{
		Kind:    DiagnosticResyncLimit,
		Range:   Range{StartByte: base.end, EndByte: textLen, StartPoint: base.endPoint, EndPoint: v.head.endPoint},
		Message: fmt.Sprintf("could not resynchronize within %d tokens; skipped to end of input", e.maxSkip),
	})
	e.logger.Debug("recovery swallowed the rest of the input", "offset", pos, "limit", e.maxSkip)
}

// addErrorChild adds a popped subtree to an ERROR node under construction.
// An earlier ERROR node is spliced in, so one malformed region yields one
// ERROR node.
func addErrorChild(b *nodeBuilder, child *subtree) {
	if child.isError() && !child.isLeaf() {
		for _, grandchild := range child.children {
			b.add(grandchild)
		}
		return
	}
	b.add(child)
}

func (e *engine) errorNode(b *nodeBuilder, base *stackEntry, failing *lookahead, lookEnd int) *subtree {
	if len(b.children) == 1 && b.children[0].isError() && b.children[0].isLeaf() {
		// A lone unrecognized token is pushed as the extra itself.
		leaf := *b.children[0]
		leaf.flags |= flagExtra
		leaf.flags &^= flagHasLead
		leaf.lookahead = max(leaf.lookahead, lookEnd-base.end-leaf.size)
		return &leaf
	}

	node := b.build(e.table.ErrorSymbol(), errorProduction, base.state, lookEnd-base.end)
	node.flags |= flagError | flagExtra
	node.flags &^= flagHasLead
	node.unexpected = failing.tok.Symbol
	node.children = slices.Clip(node.children)
	return node
}

package syntax

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// cancelCheckInterval is the number of engine steps between context checks.
const cancelCheckInterval = 1024

// Parser parses text in one language. A Parser is not safe for concurrent
// use; Trees and Languages are.
type Parser struct {
	language *Language
	scanner  Scanner
	opts     options
}

// NewParser creates a parser for lang.
func NewParser(lang *Language, opts ...Option) (*Parser, error) {
	if lang == nil || lang.Table == nil {
		return nil, ErrNilLanguage
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	scanner := o.scanner
	if scanner == nil && lang.NewScanner != nil {
		scanner = lang.NewScanner()
	}
	if scanner == nil {
		return nil, fmt.Errorf("%w: language %q has no scanner", ErrNilLanguage, lang.Name)
	}

	return &Parser{language: lang, scanner: scanner, opts: o}, nil
}

// Language returns the parser's language.
func (p *Parser) Language() *Language {
	return p.language
}

// Parse parses text from scratch. The returned tree keeps a reference to
// text, which must not be modified afterwards.
func (p *Parser) Parse(ctx context.Context, text []byte) (*Tree, error) {
	return p.parse(ctx, text, nil)
}

// ParseIncremental parses text, the result of applying old's pending edits,
// reusing every subtree of old the edits did not affect.
func (p *Parser) ParseIncremental(ctx context.Context, text []byte, old *Tree) (*Tree, error) {
	if old == nil || old.language != p.language {
		return p.Parse(ctx, text)
	}

	edits, err := newEditMap(len(old.text), old.edits)
	if err != nil {
		return nil, err
	}
	if edits.newLen != len(text) {
		return nil, fmt.Errorf("%w: edits produce %d bytes, text has %d", ErrTextMismatch, edits.newLen, len(text))
	}

	tree, err := p.parse(ctx, text, &reuser{old: old, edits: edits, iter: newReuseIterator(old.root)})
	if err != nil {
		return nil, err
	}

	if err := p.verifyIncremental(ctx, tree); err != nil {
		return nil, err
	}

	return tree, nil
}

// Reparse records edit on old and parses text incrementally.
func (p *Parser) Reparse(ctx context.Context, old *Tree, edit Edit, text []byte) (*Tree, error) {
	return p.ParseIncremental(ctx, text, old.Edit(edit))
}

func (p *Parser) verifyIncremental(ctx context.Context, tree *Tree) error {
	if tree.root.size != len(tree.text) {
		return fmt.Errorf("%w: root covers %d of %d bytes", ErrIncrementalityViolation, tree.root.size, len(tree.text))
	}

	for rec := tree.reused; rec != nil; rec = rec.prev {
		if got := tree.scannerStateAt(rec.newStart); got != rec.state {
			return fmt.Errorf("%w: scanner state mismatch at byte %d", ErrIncrementalityViolation, rec.newStart)
		}
	}

	if !p.opts.verifyIncremental {
		return nil
	}

	full, err := p.Parse(ctx, tree.text)
	if err != nil {
		return err
	}
	if a, b := FirstDifference(tree.RootNode(), full.RootNode()); !a.IsNull() || !b.IsNull() {
		return fmt.Errorf("%w: %s differs from full parse %s", ErrIncrementalityViolation, describeNode(a), describeNode(b))
	}
	return nil
}

func describeNode(n Node) string {
	if n.IsNull() {
		return "nothing"
	}
	return fmt.Sprintf("%s at %d-%d", n.Kind(), n.StartByte(), n.EndByte())
}

func (p *Parser) parse(ctx context.Context, text []byte, reuse *reuser) (*Tree, error) {
	e := &engine{
		table:        p.language.Table,
		scanner:      p.scanner,
		text:         text,
		logger:       p.opts.logger,
		maxForks:     p.opts.maxForks,
		maxSkip:      p.opts.maxSkip,
		reuse:        reuse,
		lastRecovery: -1,
	}

	winner, err := e.run(ctx)
	if err != nil {
		return nil, err
	}

	return &Tree{
		root:     winner.root,
		text:     text,
		language: p.language,
		initial:  p.scanner.InitialState(),
		stats:    e.stats,
		events:   e.events,
		reused:   winner.reused,
	}, nil
}

// engine holds the state of one parse.
type engine struct {
	table    *Table
	scanner  Scanner
	text     []byte
	logger   *log.Logger
	maxForks int
	maxSkip  int
	reuse    *reuser

	versions     []*version
	accepted     []*version
	lastDead     *version
	nextOrder    int
	lastRecovery int
	stats        Stats
	events       []Diagnostic
}

func (e *engine) run(ctx context.Context) (*version, error) {
	e.versions = []*version{{
		head: newStackBottom(e.table.StartState()),
		scan: e.scanner.InitialState(),
	}}
	e.nextOrder = 1
	e.stats.MaxVersions = 1

	for step := 0; ; step++ {
		if step%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("parse cancelled: %w", err)
			}
		}

		if len(e.versions) == 0 {
			if len(e.accepted) > 0 {
				return e.best(e.accepted), nil
			}
			dead := e.lastDead
			if dead == nil {
				return nil, fmt.Errorf("%w: no parse version left", ErrInvalidTable)
			}
			e.lastDead = nil
			dead.dead = false
			e.versions = []*version{dead}
			e.recover(dead)
			e.condense()
			continue
		}

		e.advance(e.versions[e.pickVersion()])
		e.condense()
	}
}

// pickVersion returns the index of the version with the smallest position.
func (e *engine) pickVersion() int {
	best := 0
	for i, v := range e.versions[1:] {
		if v.position() < e.versions[best].position() {
			best = i + 1
		}
	}
	return best
}

func (e *engine) best(versions []*version) *version {
	winner := versions[0]
	for _, v := range versions[1:] {
		if v.better(winner) {
			winner = v
		}
	}
	return winner
}

// advance performs one action on v.
func (e *engine) advance(v *version) {
	la := e.lookaheadFor(v)
	state := v.head.state
	actions := e.table.Actions(state, la.tok.Symbol)

	if len(actions) == 0 {
		if e.table.Symbol(la.tok.Symbol).Extra {
			e.shiftExtra(v, la)
			return
		}
		if v.resynced {
			v.root = e.finish(v, la)
			v.root.flags |= flagHasError
			return
		}
		v.dead = true
		return
	}

	if len(actions) > 1 {
		actions = slices.Clone(actions)
		slices.SortStableFunc(actions, func(a, b Action) int {
			return b.Precedence - a.Precedence
		})
		for _, action := range actions[1:] {
			fork := v.clone(e.nextOrder)
			e.nextOrder++
			e.stats.Forks++
			e.versions = append(e.versions, fork)
			e.apply(fork, action, la)
		}
	}
	e.apply(v, actions[0], la)
}

func (e *engine) apply(v *version, action Action, la *lookahead) {
	switch action.Type {
	case ActionShift:
		if len(la.chain) > 0 && e.shiftReused(v, la, action.State) {
			return
		}
		e.shift(v, action.State, la)
	case ActionReduce:
		e.reduce(v, action.Production, action.DynamicPrecedence, la)
	case ActionAccept:
		v.root = e.finish(v, la)
	}
}

// lookaheadFor returns v's cached lookahead, scanning or reusing one if
// needed.
func (e *engine) lookaheadFor(v *version) *lookahead {
	if v.next != nil {
		return v.next
	}

	state := v.head.state
	valid := e.table.ValidTokens(state)
	if e.reuse != nil && len(e.versions) == 1 {
		if la := e.reuse.candidate(e, v, valid); la != nil {
			v.next = la
			return la
		}
	}

	v.next = e.scan(v.position(), state, valid, v.scan)
	return v.next
}

// scan runs the scanner at pos and normalizes its result.
func (e *engine) scan(pos int, lexState StateID, valid TokenSet, state ScannerState) *lookahead {
	if pos >= len(e.text) {
		return &lookahead{
			tok: Token{
				Symbol:       e.table.EndSymbol(),
				StartByte:    len(e.text),
				EndByte:      len(e.text),
				LookaheadEnd: len(e.text) + 1,
			},
			before:   state,
			after:    state,
			lexState: lexState,
		}
	}

	e.stats.TokensScanned++
	res := e.scanner.Scan(e.text, pos, valid, state)
	if res.Status != ScanMatched || res.Token.StartByte != pos || res.Token.EndByte <= pos || res.Token.EndByte > len(e.text) {
		_, width := utf8.DecodeRune(e.text[pos:])
		end := pos + max(width, 1)
		return &lookahead{
			tok: Token{
				Symbol:       e.table.ErrorSymbol(),
				StartByte:    pos,
				EndByte:      end,
				LookaheadEnd: max(end, res.Token.LookaheadEnd),
			},
			before:   state,
			after:    state,
			lexState: lexState,
		}
	}

	tok := res.Token
	tok.LookaheadEnd = max(tok.LookaheadEnd, tok.EndByte)
	return &lookahead{tok: tok, before: state, after: res.State, lexState: lexState}
}

func (e *engine) newLeaf(la *lookahead, parseState StateID) *subtree {
	leaf := newLeaf(la.tok, e.text, la.after, parseState, la.lexState, e.table.Symbol(la.tok.Symbol), e.table.ErrorSymbol())
	if len(e.versions) > 1 || la.rescanned {
		leaf.flags |= flagFragile
	}
	return leaf
}

func (e *engine) shift(v *version, target StateID, la *lookahead) {
	v.head = v.head.push(target, e.newLeaf(la, v.head.state))
	v.scan = la.after
	v.next = nil
}

func (e *engine) shiftExtra(v *version, la *lookahead) {
	var leaf *subtree
	if n := len(la.chain); n > 0 && la.chain[n-1].isExtra() {
		leaf = la.chain[n-1]
		e.recordReuse(v, leaf)
	} else {
		leaf = e.newLeaf(la, v.head.state).asExtra()
	}
	v.head = v.head.push(v.head.state, leaf)
	v.scan = la.after
	v.next = nil
}

// reduce pops the children of production prodID and pushes the new node.
func (e *engine) reduce(v *version, prodID, dynPrec int, la *lookahead) {
	prod := e.table.Production(prodID)

	head := v.head
	var trailing []*subtree
	for !head.isBottom() && head.node.isExtra() {
		trailing = append(trailing, head.node)
		head = head.prev
	}

	popped := make([]*subtree, 0, len(prod.RHS)+len(trailing))
	remaining := len(prod.RHS)
	for remaining > 0 && !head.isBottom() {
		popped = append(popped, head.node)
		if !head.node.isExtra() {
			remaining--
		}
		head = head.prev
	}
	if remaining > 0 {
		v.dead = true
		return
	}
	slices.Reverse(popped)

	var b nodeBuilder
	position := 0
	for _, child := range popped {
		if !child.isExtra() {
			if alias, ok := prod.aliasAt(position); ok {
				child = child.withSymbol(alias)
			}
			position++
		}
		b.add(child)
	}

	node := b.build(prod.LHS, prodID, head.state, la.tok.LookaheadEnd-head.end)
	if e.table.Symbol(prod.LHS).Hidden {
		node.flags |= flagHidden
	}
	if len(e.versions) > 1 {
		node.flags |= flagFragile
	}

	target, ok := e.table.Goto(head.state, prod.LHS)
	if !ok {
		v.dead = true
		return
	}

	head = head.push(target, node)
	for i := len(trailing) - 1; i >= 0; i-- {
		head = head.push(target, trailing[i])
	}
	v.head = head
	v.dynPrec += dynPrec
}

// finish builds the root from every entry above the stack bottom.
func (e *engine) finish(v *version, la *lookahead) *subtree {
	var entries []*subtree
	head := v.head
	for ; !head.isBottom(); head = head.prev {
		entries = append(entries, head.node)
	}
	slices.Reverse(entries)

	var b nodeBuilder
	for _, entry := range entries {
		b.add(entry)
	}
	return b.build(e.table.StartSymbol(), 0, head.state, la.tok.LookaheadEnd-head.end)
}

// condense drops finished and dead versions, merges equivalent versions and
// prunes the rest down to maxForks.
func (e *engine) condense() {
	live := make([]*version, 0, len(e.versions))
	for _, v := range e.versions {
		switch {
		case v.root != nil:
			e.accepted = append(e.accepted, v)
		case v.dead:
			e.lastDead = v
		default:
			live = append(live, v)
		}
	}

	merged := live[:0]
	for _, v := range live {
		duplicate := false
		for i, kept := range merged {
			if kept.sameConfiguration(v) {
				if v.better(kept) {
					merged[i] = v
				}
				duplicate = true
				e.stats.Merges++
				break
			}
		}
		if !duplicate {
			merged = append(merged, v)
		}
	}

	if len(merged) > e.maxForks {
		ranked := slices.Clone(merged)
		slices.SortStableFunc(ranked, func(a, b *version) int {
			if a.better(b) {
				return -1
			}
			if b.better(a) {
				return 1
			}
			return 0
		})
		dropped := ranked[e.maxForks:]
		keep := make(map[*version]bool, e.maxForks)
		for _, v := range ranked[:e.maxForks] {
			keep[v] = true
		}
		merged = slices.DeleteFunc(merged, func(v *version) bool { return !keep[v] })

		pos := dropped[0].position()
		e.events = append(e.events, Diagnostic{
			Kind:    DiagnosticConflictOverflow,
			Range:   Range{StartByte: pos, EndByte: pos, StartPoint: dropped[0].head.endPoint, EndPoint: dropped[0].head.endPoint},
			Message: fmt.Sprintf("dropped %d ambiguous parse versions", len(dropped)),
		})
		e.logger.Debug("pruned parse versions", "offset", pos, "dropped", len(dropped), "limit", e.maxForks)
	}

	e.versions = merged
	e.stats.MaxVersions = max(e.stats.MaxVersions, len(merged))
}

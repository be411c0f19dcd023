package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// The arithmetic test grammar:
//
//	program → expr
//	expr    → expr + expr | number
//
// It is ambiguous, so state 4 has a shift/reduce conflict on "+".
const (
	arithEnd Symbol = iota
	arithNumber
	arithPlus
	arithSpace
	arithError
	arithTerminals
)

const (
	arithProgram Symbol = iota + arithTerminals
	arithExpr
)

const (
	arithProdProgram = iota
	arithProdSum
	arithProdNumber
)

type arithOptions struct {
	// shiftPrecedence orders the shift before the reduce on conflicts.
	shiftPrecedence int
	// reduceDynamic is the dynamic precedence of the conflicting reduce.
	reduceDynamic int
}

func arithSpec(opts arithOptions) TableSpec {
	shift := func(state StateID, sym Symbol, target StateID) ActionEntry {
		return ActionEntry{State: state, Symbol: sym, Action: Action{Type: ActionShift, State: target}}
	}
	reduce := func(state StateID, sym Symbol, prod int) ActionEntry {
		return ActionEntry{State: state, Symbol: sym, Action: Action{Type: ActionReduce, Production: prod}}
	}

	conflictShift := shift(4, arithPlus, 3)
	conflictShift.Action.Precedence = opts.shiftPrecedence
	conflictReduce := reduce(4, arithPlus, arithProdSum)
	conflictReduce.Action.DynamicPrecedence = opts.reduceDynamic

	return TableSpec{
		Symbols: []SymbolMetadata{
			arithEnd:     {Name: "end"},
			arithNumber:  {Name: "number", Named: true},
			arithPlus:    {Name: "+"},
			arithSpace:   {Name: "space", Extra: true},
			arithError:   {Name: "ERROR", Named: true},
			arithProgram: {Name: "program", Named: true},
			arithExpr:    {Name: "expr", Named: true},
		},
		TerminalCount: int(arithTerminals),
		StateCount:    5,
		EndSymbol:     arithEnd,
		ErrorSymbol:   arithError,
		Productions: []Production{
			arithProdProgram: {LHS: arithProgram, RHS: []Symbol{arithExpr}},
			arithProdSum:     {LHS: arithExpr, RHS: []Symbol{arithExpr, arithPlus, arithExpr}},
			arithProdNumber:  {LHS: arithExpr, RHS: []Symbol{arithNumber}},
		},
		Actions: []ActionEntry{
			shift(0, arithNumber, 2),
			{State: 1, Symbol: arithEnd, Action: Action{Type: ActionAccept}},
			shift(1, arithPlus, 3),
			reduce(2, arithEnd, arithProdNumber),
			reduce(2, arithPlus, arithProdNumber),
			shift(3, arithNumber, 2),
			reduce(4, arithEnd, arithProdSum),
			conflictReduce,
			conflictShift,
		},
		Gotos: []GotoEntry{
			{State: 0, Symbol: arithExpr, Target: 1},
			{State: 3, Symbol: arithExpr, Target: 4},
		},
	}
}

// arithScanner lexes digits, "+" and spaces. Anything else is unmatched.
type arithScanner struct{}

func (arithScanner) InitialState() ScannerState {
	return ""
}

func (arithScanner) Scan(input []byte, pos int, _ TokenSet, state ScannerState) ScanResult {
	if pos >= len(input) {
		return ScanResult{Status: ScanEndOfInput, State: state}
	}

	run := func(sym Symbol, match func(byte) bool) ScanResult {
		end := pos
		for end < len(input) && match(input[end]) {
			end++
		}
		return ScanResult{
			Status: ScanMatched,
			Token:  Token{Symbol: sym, StartByte: pos, EndByte: end, LookaheadEnd: end + 1},
			State:  state,
		}
	}

	switch c := input[pos]; {
	case c >= '0' && c <= '9':
		return run(arithNumber, func(b byte) bool { return b >= '0' && b <= '9' })
	case c == ' ' || c == '\n':
		return run(arithSpace, func(b byte) bool { return b == ' ' || b == '\n' })
	case c == '+':
		return ScanResult{
			Status: ScanMatched,
			Token:  Token{Symbol: arithPlus, StartByte: pos, EndByte: pos + 1, LookaheadEnd: pos + 1},
			State:  state,
		}
	default:
		return ScanResult{Status: ScanNoMatch, State: state}
	}
}

func arithLanguage(t *testing.T, opts arithOptions) *Language {
	t.Helper()

	table, err := NewTable(arithSpec(opts))
	require.NoError(t, err)

	return &Language{
		Name:       "arith",
		Version:    1,
		Table:      table,
		NewScanner: func() Scanner { return arithScanner{} },
	}
}

func parseArith(t *testing.T, lang *Language, text string, opts ...Option) *Tree {
	t.Helper()

	parser, err := NewParser(lang, opts...)
	require.NoError(t, err)

	tree, err := parser.Parse(context.Background(), []byte(text))
	require.NoError(t, err)
	return tree
}

// assertCovers checks that every node's children tile its span exactly.
func assertCovers(t *testing.T, node Node) {
	t.Helper()

	pos := node.StartByte()
	for _, child := range node.Children() {
		require.Equal(t, pos, child.StartByte(), "child %s of %s", child.Kind(), node.Kind())
		assertCovers(t, child)
		pos = child.EndByte()
	}
	if node.ChildCount() > 0 {
		require.Equal(t, node.EndByte(), pos, "children of %s", node.Kind())
	}
}

package syntax

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The word-list test grammar:
//
//	program → _items
//	_items  → ε | _items word
//
// _items is hidden and left-recursive, so every reduce extends the children
// of the previous _items node in place.
const (
	listEnd Symbol = iota
	listWord
	listSpace
	listError
	listTerminals
)

const (
	listProgram Symbol = iota + listTerminals
	listItems
)

func listLanguage(t *testing.T) *Language {
	t.Helper()

	reduce := func(state StateID, sym Symbol, prod int) ActionEntry {
		return ActionEntry{State: state, Symbol: sym, Action: Action{Type: ActionReduce, Production: prod}}
	}

	table, err := NewTable(TableSpec{
		Symbols: []SymbolMetadata{
			listEnd:     {Name: "end"},
			listWord:    {Name: "word", Named: true},
			listSpace:   {Name: "space", Extra: true},
			listError:   {Name: "ERROR", Named: true},
			listProgram: {Name: "program", Named: true},
			listItems:   {Name: "_items", Hidden: true},
		},
		TerminalCount: int(listTerminals),
		StateCount:    3,
		EndSymbol:     listEnd,
		ErrorSymbol:   listError,
		Productions: []Production{
			{LHS: listProgram, RHS: []Symbol{listItems}},
			{LHS: listItems},
			{LHS: listItems, RHS: []Symbol{listItems, listWord}},
		},
		Actions: []ActionEntry{
			reduce(0, listEnd, 1),
			reduce(0, listWord, 1),
			{State: 1, Symbol: listEnd, Action: Action{Type: ActionAccept}},
			{State: 1, Symbol: listWord, Action: Action{Type: ActionShift, State: 2}},
			reduce(2, listEnd, 2),
			reduce(2, listWord, 2),
		},
		Gotos: []GotoEntry{
			{State: 0, Symbol: listItems, Target: 1},
		},
	})
	require.NoError(t, err)

	return &Language{
		Name:       "list",
		Version:    1,
		Table:      table,
		NewScanner: func() Scanner { return listScanner{} },
	}
}

// listScanner lexes each "a" as a word and runs of spaces as one extra.
type listScanner struct{}

func (listScanner) InitialState() ScannerState {
	return ""
}

func (listScanner) Scan(input []byte, pos int, _ TokenSet, state ScannerState) ScanResult {
	if pos >= len(input) {
		return ScanResult{Status: ScanEndOfInput, State: state}
	}

	end := pos + 1
	sym := listWord
	switch input[pos] {
	case 'a':
	case ' ':
		sym = listSpace
		for end < len(input) && input[end] == ' ' {
			end++
		}
	default:
		return ScanResult{Status: ScanNoMatch, State: state}
	}
	return ScanResult{
		Status: ScanMatched,
		Token:  Token{Symbol: sym, StartByte: pos, EndByte: end, LookaheadEnd: end},
		State:  state,
	}
}

// assertNoHidden fails when a hidden subtree is reachable from s. Hidden
// nodes are flattened into their parent before a parse returns, which is
// what lets nodeBuilder mark them spent without copying.
func assertNoHidden(t *testing.T, s *subtree) {
	t.Helper()

	require.False(t, s.isHidden(), "hidden %d survived the parse", s.symbol)
	for _, child := range s.children {
		assertNoHidden(t, child)
	}
}

func TestNodeBuilder_HiddenListsAreFlattened(t *testing.T) {
	t.Parallel()

	lang := listLanguage(t)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "single word", text: "a"},
		{name: "long list", text: strings.Repeat("a", 64)},
		{name: "words and spaces", text: "a a  a   aa"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			parser, err := NewParser(lang)
			require.NoError(t, err)

			first, err := parser.Parse(context.Background(), []byte(testCase.text))
			require.NoError(t, err)
			assertNoHidden(t, first.root)
			assertCovers(t, first.RootNode())
			assert.Len(t, FindByKind(first.RootNode(), "word"), strings.Count(testCase.text, "a"))

			second, err := parser.Parse(context.Background(), []byte(testCase.text+"a"))
			require.NoError(t, err)
			assertNoHidden(t, second.root)
			assert.Len(t, FindByKind(second.RootNode(), "word"), strings.Count(testCase.text, "a")+1)

			// The first tree is untouched by the second parse.
			assert.Len(t, FindByKind(first.RootNode(), "word"), strings.Count(testCase.text, "a"))
			assert.Equal(t, len(testCase.text), first.RootNode().EndByte())
		})
	}
}

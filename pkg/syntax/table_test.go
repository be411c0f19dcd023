package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Valid(t *testing.T) {
	t.Parallel()

	table, err := NewTable(arithSpec(arithOptions{}))
	require.NoError(t, err)

	assert.Equal(t, int(arithTerminals), table.TerminalCount())
	assert.Equal(t, 7, table.SymbolCount())
	assert.Equal(t, 5, table.StateCount())
	assert.Equal(t, arithProgram, table.StartSymbol())
	assert.True(t, table.IsTerminal(arithPlus))
	assert.False(t, table.IsTerminal(arithExpr))
	assert.Equal(t, "expr → expr + expr", table.FormatProduction(arithProdSum))
	assert.Equal(t, []Symbol{arithExpr}, table.SymbolsNamed("expr"))

	assert.Len(t, table.Actions(4, arithPlus), 2)
	assert.True(t, table.HasAction(1, arithEnd))
	assert.False(t, table.HasAction(0, arithPlus))

	target, ok := table.Goto(3, arithExpr)
	assert.True(t, ok)
	assert.Equal(t, StateID(4), target)

	valid := table.ValidTokens(2)
	assert.True(t, valid.Has(arithEnd))
	assert.True(t, valid.Has(arithPlus))
	assert.True(t, valid.Has(arithSpace), "extras are valid everywhere")
	assert.False(t, valid.Has(arithNumber))
	assert.Equal(t, int(arithTerminals), table.AllTokens().Len())
}

func TestNewTable_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*TableSpec)
	}{
		{"no terminals", func(s *TableSpec) { s.TerminalCount = 0 }},
		{"too many terminals", func(s *TableSpec) { s.TerminalCount = 99 }},
		{"start state out of range", func(s *TableSpec) { s.StartState = 9 }},
		{"end symbol not terminal", func(s *TableSpec) { s.EndSymbol = arithExpr }},
		{"no productions", func(s *TableSpec) { s.Productions = nil }},
		{"terminal lhs", func(s *TableSpec) { s.Productions[1].LHS = arithPlus }},
		{"unknown rhs symbol", func(s *TableSpec) { s.Productions[1].RHS = []Symbol{42} }},
		{"too many aliases", func(s *TableSpec) { s.Productions[2].Aliases = []Symbol{arithExpr, arithExpr} }},
		{"shift out of range", func(s *TableSpec) {
			s.Actions = append(s.Actions, ActionEntry{State: 0, Symbol: arithPlus, Action: Action{Type: ActionShift, State: 77}})
		}},
		{"reduce missing production", func(s *TableSpec) {
			s.Actions = append(s.Actions, ActionEntry{State: 0, Symbol: arithPlus, Action: Action{Type: ActionReduce, Production: 12}})
		}},
		{"action on nonterminal", func(s *TableSpec) {
			s.Actions = append(s.Actions, ActionEntry{State: 0, Symbol: arithExpr, Action: Action{Type: ActionAccept}})
		}},
		{"goto on terminal", func(s *TableSpec) {
			s.Gotos = append(s.Gotos, GotoEntry{State: 0, Symbol: arithNumber, Target: 1})
		}},
		{"goto target out of range", func(s *TableSpec) {
			s.Gotos = append(s.Gotos, GotoEntry{State: 1, Symbol: arithExpr, Target: 40})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec := arithSpec(arithOptions{})
			tt.mutate(&spec)

			_, err := NewTable(spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTable)

			var tableErr *TableError
			assert.True(t, errors.As(err, &tableErr))
		})
	}
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "s12", Action{Type: ActionShift, State: 12}.String())
	assert.Equal(t, "r3", Action{Type: ActionReduce, Production: 3}.String())
	assert.Equal(t, "acc", Action{Type: ActionAccept}.String())
	assert.Equal(t, "ActionType(9)", ActionType(9).String())
}

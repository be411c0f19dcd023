// Package syntax implements a table-driven incremental parser.
//
// A Language couples an immutable parse Table with a Scanner factory. A
// Parser drives the table with a generalized LR engine: conflicting actions
// fork parse versions, versions that reach the same configuration merge, and
// a version with no action recovers by wrapping skipped input in an ERROR
// node. The resulting Tree is immutable. Trees share subtrees, so an edited
// document can be reparsed by reusing every subtree the edit did not touch.
package syntax

import (
	"fmt"
	"strings"
)

// Symbol identifies a grammar symbol. Terminals occupy [0, TerminalCount).
type Symbol uint16

// StateID identifies a parse state.
type StateID uint16

// ActionType is the kind of a parse action.
type ActionType uint8

// Action types.
const (
	ActionShift ActionType = iota
	ActionReduce
	ActionAccept
)

// String returns the action type name.
func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return fmt.Sprintf("ActionType(%d)", t)
	}
}

// Action is one entry of the action table.
type Action struct {
	Type ActionType
	// State is the target of a shift.
	State StateID
	// Production is the index reduced by a reduce.
	Production int
	// Precedence orders forked versions: the action with the highest
	// precedence keeps the original version's place.
	Precedence int
	// DynamicPrecedence is added to a version's score when it reduces.
	DynamicPrecedence int
}

// String returns a compact description such as "s12" or "r3".
func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("s%d", a.State)
	case ActionReduce:
		return fmt.Sprintf("r%d", a.Production)
	case ActionAccept:
		return "acc"
	default:
		return a.Type.String()
	}
}

// SymbolMetadata describes how a symbol appears in trees.
type SymbolMetadata struct {
	Name string
	// Named symbols appear in S-expressions; anonymous ones are punctuation.
	Named bool
	// Hidden nonterminals are flattened into their parent.
	Hidden bool
	// Extra terminals may appear anywhere and never change the parse state.
	Extra bool
}

// Visible reports whether nodes of this symbol appear in trees.
func (m SymbolMetadata) Visible() bool {
	return !m.Hidden
}

// Production is a grammar rule LHS → RHS.
type Production struct {
	LHS Symbol
	RHS []Symbol
	// Aliases optionally renames the child at each RHS position. A zero
	// entry leaves the child unchanged; nil means no aliases.
	Aliases []Symbol
}

// ChildCount returns the number of non-extra children popped on reduce.
func (p Production) ChildCount() int {
	return len(p.RHS)
}

// aliasAt returns the alias for RHS position i, if any.
func (p Production) aliasAt(i int) (Symbol, bool) {
	if i >= len(p.Aliases) || p.Aliases[i] == 0 {
		return 0, false
	}
	return p.Aliases[i], true
}

// Language is the static artifact produced for one grammar.
type Language struct {
	Name       string
	Version    int
	Table      *Table
	NewScanner func() Scanner
}

// String returns the language name and version.
func (l *Language) String() string {
	return fmt.Sprintf("%s v%d", l.Name, l.Version)
}

// formatSymbols renders a symbol list for messages.
func (t *Table) formatSymbols(syms []Symbol) string {
	names := make([]string, 0, len(syms))
	for _, sym := range syms {
		names = append(names, t.SymbolName(sym))
	}
	return strings.Join(names, " ")
}

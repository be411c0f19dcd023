package syntax

import "fmt"

// ActionEntry places an action in the table.
type ActionEntry struct {
	State  StateID
	Symbol Symbol
	Action Action
}

// GotoEntry places a goto transition in the table.
type GotoEntry struct {
	State  StateID
	Symbol Symbol
	Target StateID
}

// TableSpec is the raw description a Table is built from.
type TableSpec struct {
	Symbols       []SymbolMetadata
	TerminalCount int
	StateCount    int
	StartState    StateID
	EndSymbol     Symbol
	ErrorSymbol   Symbol
	Productions   []Production
	Actions       []ActionEntry
	Gotos         []GotoEntry
}

type stateSymbolKey struct {
	state  StateID
	symbol Symbol
}

// Table is an immutable parse table. It is safe for concurrent use.
type Table struct {
	symbols       []SymbolMetadata
	terminalCount int
	stateCount    int
	startState    StateID
	endSymbol     Symbol
	errorSymbol   Symbol
	productions   []Production
	actions       map[stateSymbolKey][]Action
	gotos         map[stateSymbolKey]StateID
	valid         []TokenSet
	extras        TokenSet
	terminals     TokenSet
	byName        map[string][]Symbol
}

// NewTable validates spec and builds a Table.
func NewTable(spec TableSpec) (*Table, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	table := &Table{
		symbols:       append([]SymbolMetadata(nil), spec.Symbols...),
		terminalCount: spec.TerminalCount,
		stateCount:    spec.StateCount,
		startState:    spec.StartState,
		endSymbol:     spec.EndSymbol,
		errorSymbol:   spec.ErrorSymbol,
		productions:   make([]Production, len(spec.Productions)),
		actions:       make(map[stateSymbolKey][]Action, len(spec.Actions)),
		gotos:         make(map[stateSymbolKey]StateID, len(spec.Gotos)),
		valid:         make([]TokenSet, spec.StateCount),
		byName:        make(map[string][]Symbol, len(spec.Symbols)),
	}

	for i, prod := range spec.Productions {
		table.productions[i] = Production{
			LHS:     prod.LHS,
			RHS:     append([]Symbol(nil), prod.RHS...),
			Aliases: append([]Symbol(nil), prod.Aliases...),
		}
	}

	for _, entry := range spec.Actions {
		key := stateSymbolKey{state: entry.State, symbol: entry.Symbol}
		table.actions[key] = append(table.actions[key], entry.Action)
		table.valid[entry.State] = table.valid[entry.State].With(entry.Symbol)
	}

	for _, entry := range spec.Gotos {
		table.gotos[stateSymbolKey{state: entry.State, symbol: entry.Symbol}] = entry.Target
	}

	for sym := range spec.TerminalCount {
		table.terminals = table.terminals.With(Symbol(sym))
		if spec.Symbols[sym].Extra {
			table.extras = table.extras.With(Symbol(sym))
		}
	}
	for state := range table.valid {
		table.valid[state] = table.valid[state].Union(table.extras)
	}

	for i, meta := range spec.Symbols {
		table.byName[meta.Name] = append(table.byName[meta.Name], Symbol(i))
	}

	return table, nil
}

func validateSpec(spec TableSpec) error {
	symbolCount := len(spec.Symbols)

	if spec.TerminalCount <= 0 || spec.TerminalCount > MaxTerminals {
		return &TableError{Reason: fmt.Sprintf("terminal count %d out of range", spec.TerminalCount)}
	}
	if spec.TerminalCount > symbolCount {
		return &TableError{Reason: fmt.Sprintf("terminal count %d exceeds symbol metadata (%d)", spec.TerminalCount, symbolCount)}
	}
	if spec.StateCount <= 0 || int(spec.StartState) >= spec.StateCount {
		return &TableError{State: spec.StartState, Reason: "start state out of range"}
	}
	if int(spec.EndSymbol) >= spec.TerminalCount {
		return &TableError{Symbol: spec.EndSymbol, Reason: "end symbol is not a terminal"}
	}
	if int(spec.ErrorSymbol) >= spec.TerminalCount {
		return &TableError{Symbol: spec.ErrorSymbol, Reason: "error symbol is not a terminal"}
	}
	if len(spec.Productions) == 0 {
		return &TableError{Reason: "no productions"}
	}

	for i, prod := range spec.Productions {
		if int(prod.LHS) < spec.TerminalCount || int(prod.LHS) >= symbolCount {
			return &TableError{Symbol: prod.LHS, Reason: fmt.Sprintf("production %d has invalid left-hand side", i)}
		}
		for _, sym := range prod.RHS {
			if int(sym) >= symbolCount {
				return &TableError{Symbol: sym, Reason: fmt.Sprintf("production %d references unknown symbol", i)}
			}
		}
		if len(prod.Aliases) > len(prod.RHS) {
			return &TableError{Reason: fmt.Sprintf("production %d has more aliases than children", i)}
		}
		for _, alias := range prod.Aliases {
			if int(alias) >= symbolCount {
				return &TableError{Symbol: alias, Reason: fmt.Sprintf("production %d aliases to unknown symbol", i)}
			}
		}
	}

	for _, entry := range spec.Actions {
		if int(entry.State) >= spec.StateCount {
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "action in unknown state"}
		}
		if int(entry.Symbol) >= spec.TerminalCount {
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "action on non-terminal"}
		}
		switch entry.Action.Type {
		case ActionShift:
			if int(entry.Action.State) >= spec.StateCount {
				return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "shift target out of range"}
			}
		case ActionReduce:
			if entry.Action.Production < 0 || entry.Action.Production >= len(spec.Productions) {
				return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "reduce references missing production"}
			}
		case ActionAccept:
		default:
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "unknown action type"}
		}
	}

	for _, entry := range spec.Gotos {
		if int(entry.State) >= spec.StateCount {
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "goto in unknown state"}
		}
		if int(entry.Symbol) < spec.TerminalCount || int(entry.Symbol) >= symbolCount {
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "goto on non-nonterminal"}
		}
		if int(entry.Target) >= spec.StateCount {
			return &TableError{State: entry.State, Symbol: entry.Symbol, Reason: "goto target out of range"}
		}
	}

	return nil
}

// Actions returns the actions for sym in state. The slice must not be modified.
func (t *Table) Actions(state StateID, sym Symbol) []Action {
	return t.actions[stateSymbolKey{state: state, symbol: sym}]
}

// HasAction reports whether state has any action on sym.
func (t *Table) HasAction(state StateID, sym Symbol) bool {
	return len(t.Actions(state, sym)) > 0
}

// Goto returns the state reached from state after reducing to sym.
func (t *Table) Goto(state StateID, sym Symbol) (StateID, bool) {
	target, ok := t.gotos[stateSymbolKey{state: state, symbol: sym}]
	return target, ok
}

// ValidTokens returns the terminals with an action in state, plus extras.
func (t *Table) ValidTokens(state StateID) TokenSet {
	if int(state) >= len(t.valid) {
		return t.extras
	}
	return t.valid[state]
}

// AllTokens returns every terminal. Error recovery scans with it.
func (t *Table) AllTokens() TokenSet {
	return t.terminals
}

// Symbol returns the metadata for sym.
func (t *Table) Symbol(sym Symbol) SymbolMetadata {
	if int(sym) >= len(t.symbols) {
		return SymbolMetadata{Name: fmt.Sprintf("symbol(%d)", sym)}
	}
	return t.symbols[sym]
}

// SymbolName returns the display name of sym.
func (t *Table) SymbolName(sym Symbol) string {
	return t.Symbol(sym).Name
}

// SymbolsNamed returns every symbol whose name is name.
func (t *Table) SymbolsNamed(name string) []Symbol {
	return t.byName[name]
}

// SymbolCount returns the number of symbols.
func (t *Table) SymbolCount() int {
	return len(t.symbols)
}

// TerminalCount returns the number of terminals.
func (t *Table) TerminalCount() int {
	return t.terminalCount
}

// StateCount returns the number of parse states.
func (t *Table) StateCount() int {
	return t.stateCount
}

// IsTerminal reports whether sym is a terminal.
func (t *Table) IsTerminal(sym Symbol) bool {
	return int(sym) < t.terminalCount
}

// Production returns production i.
func (t *Table) Production(i int) Production {
	return t.productions[i]
}

// Productions returns all productions. The slice must not be modified.
func (t *Table) Productions() []Production {
	return t.productions
}

// StartState returns the initial parse state.
func (t *Table) StartState() StateID {
	return t.startState
}

// EndSymbol returns the end-of-input terminal.
func (t *Table) EndSymbol() Symbol {
	return t.endSymbol
}

// ErrorSymbol returns the symbol used for ERROR nodes and error tokens.
func (t *Table) ErrorSymbol() Symbol {
	return t.errorSymbol
}

// StartSymbol returns the left-hand side of production 0.
func (t *Table) StartSymbol() Symbol {
	return t.productions[0].LHS
}

// FormatProduction renders production i as "lhs → rhs".
func (t *Table) FormatProduction(i int) string {
	prod := t.productions[i]
	rhs := t.formatSymbols(prod.RHS)
	if rhs == "" {
		rhs = "ε"
	}
	return fmt.Sprintf("%s → %s", t.SymbolName(prod.LHS), rhs)
}

// Package grammar renders a parse table's productions as EBNF and checks the
// result with golang.org/x/exp/ebnf.
//
// Nonterminals become CamelCase syntactic productions. Terminals defined in
// a Lexicon become lowercase lexical productions; other anonymous terminals
// are written inline as tokens.
package grammar

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// Lexicon maps lexical production names to EBNF expressions. Every named
// terminal of a table needs an entry; helper productions referenced by
// entries may be added under names that are not terminals.
type Lexicon map[string]string

// StartName returns the EBNF name of the table's start symbol.
func StartName(table *syntax.Table) string {
	return ruleName(table.SymbolName(table.StartSymbol()))
}

// Render writes the grammar of table as EBNF source, one production per
// line. Syntactic productions come first in table order, then the lexicon
// sorted by name.
func Render(table *syntax.Table, lexicon Lexicon) string {
	var order []syntax.Symbol
	alternatives := make(map[syntax.Symbol][]string)
	optional := make(map[syntax.Symbol]bool)

	for _, prod := range table.Productions() {
		if _, seen := alternatives[prod.LHS]; !seen {
			order = append(order, prod.LHS)
			alternatives[prod.LHS] = nil
		}
		if len(prod.RHS) == 0 {
			optional[prod.LHS] = true
			continue
		}
		terms := make([]string, 0, len(prod.RHS))
		for _, sym := range prod.RHS {
			terms = append(terms, term(table, sym, lexicon))
		}
		alternatives[prod.LHS] = append(alternatives[prod.LHS], strings.Join(terms, " "))
	}

	var builder strings.Builder
	for _, lhs := range order {
		expr := strings.Join(alternatives[lhs], " | ")
		if optional[lhs] && expr != "" {
			expr = "[ " + expr + " ]"
		}
		writeProduction(&builder, ruleName(table.SymbolName(lhs)), expr)
	}

	names := make([]string, 0, len(lexicon))
	for name := range lexicon {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		writeProduction(&builder, name, strings.TrimSpace(lexicon[name]))
	}

	return builder.String()
}

// Build renders table and parses the result.
func Build(table *syntax.Table, lexicon Lexicon) (ebnf.Grammar, error) {
	src := Render(table, lexicon)
	g, err := ebnf.Parse(table.SymbolName(table.StartSymbol())+".ebnf", strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse rendered grammar: %w", err)
	}
	return g, nil
}

// Verify checks that every production reachable from the start symbol is
// defined, that every defined production is reachable, and that lexical
// productions only refer to other lexical productions.
func Verify(table *syntax.Table, lexicon Lexicon) error {
	g, err := Build(table, lexicon)
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, StartName(table)); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

func writeProduction(builder *strings.Builder, name, expr string) {
	builder.WriteString(name)
	builder.WriteString(" =")
	if expr != "" {
		builder.WriteString(" ")
		builder.WriteString(expr)
	}
	builder.WriteString(" .\n")
}

func term(table *syntax.Table, sym syntax.Symbol, lexicon Lexicon) string {
	meta := table.Symbol(sym)
	if !table.IsTerminal(sym) {
		return ruleName(meta.Name)
	}
	if _, ok := lexicon[meta.Name]; ok || meta.Named {
		return meta.Name
	}
	return strconv.Quote(meta.Name)
}

// ruleName turns a snake_case symbol name into a CamelCase production name.
// A leading underscore marks hidden rules and is dropped.
func ruleName(name string) string {
	var builder strings.Builder
	for part := range strings.SplitSeq(name, "_") {
		if part == "" {
			continue
		}
		builder.WriteString(strings.ToUpper(part[:1]))
		builder.WriteString(part[1:])
	}
	return builder.String()
}

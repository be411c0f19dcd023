package django

import "github.com/yaklabco/djtree/pkg/syntax"

const stateCount = 57

// Production indices.
const (
	prodTemplate = iota
	prodNodesEmpty
	prodNodesContent
	prodNodesUnpairedComment
	prodNodesPairedComment
	prodNodesExpression
	prodNodesUnpaired
	prodNodesPaired
	prodBodyEmpty
	prodBodyContent
	prodBodyUnpairedComment
	prodBodyPairedComment
	prodBodyExpression
	prodBodyUnpaired
	prodBodyPaired
	prodBodyBranch
	prodExpression
	prodVariable
	prodFiltersEmpty
	prodFiltersMore
	prodFilter
	prodFilterArgument
	prodUnpaired
	prodPaired
	prodPairedVerbatim
	prodBranch
	prodAttributesEmpty
	prodAttributesKeyword
	prodAttributesKeywordOperator
	prodAttributesOperator
	prodAttributesNumber
	prodAttributesBoolean
	prodAttributesSeparator
	prodAttributesString
	prodAttributesVariable
	prodString
	prodAttributesFilters
)

func productions() []syntax.Production {
	endAlias := make([]syntax.Symbol, 9)
	endAlias[8] = SymEndPairedStatement

	node := func(lhs, child syntax.Symbol) syntax.Production {
		return syntax.Production{LHS: lhs, RHS: []syntax.Symbol{lhs, child}}
	}

	return []syntax.Production{
		prodTemplate:             {LHS: SymTemplate, RHS: []syntax.Symbol{symNodes}},
		prodNodesEmpty:           {LHS: symNodes},
		prodNodesContent:         node(symNodes, SymContent),
		prodNodesUnpairedComment: node(symNodes, SymUnpairedComment),
		prodNodesPairedComment:   node(symNodes, SymPairedComment),
		prodNodesExpression:      node(symNodes, SymExpression),
		prodNodesUnpaired:        node(symNodes, SymUnpairedStatement),
		prodNodesPaired:          node(symNodes, SymPairedStatement),
		prodBodyEmpty:            {LHS: symBody},
		prodBodyContent:          node(symBody, SymContent),
		prodBodyUnpairedComment:  node(symBody, SymUnpairedComment),
		prodBodyPairedComment:    node(symBody, SymPairedComment),
		prodBodyExpression:       node(symBody, SymExpression),
		prodBodyUnpaired:         node(symBody, SymUnpairedStatement),
		prodBodyPaired:           node(symBody, SymPairedStatement),
		prodBodyBranch:           node(symBody, SymBranchStatement),
		prodExpression: {
			LHS: SymExpression,
			RHS: []syntax.Symbol{SymExpressionOpen, SymVariable, SymExpressionClose},
		},
		prodVariable:      {LHS: SymVariable, RHS: []syntax.Symbol{SymVariableName, symFilters}},
		prodFiltersEmpty:  {LHS: symFilters},
		prodFiltersMore:   {LHS: symFilters, RHS: []syntax.Symbol{symFilters, SymPipe, SymFilter}},
		prodFilter:        {LHS: SymFilter, RHS: []syntax.Symbol{SymFilterName}},
		prodFilterArgument: {LHS: SymFilter, RHS: []syntax.Symbol{SymFilterName, SymColon, SymFilterArgument}},
		prodUnpaired: {
			LHS: SymUnpairedStatement,
			RHS: []syntax.Symbol{SymTagOpen, SymTagName, symAttributes, SymTagClose},
		},
		prodPaired: {
			LHS: SymPairedStatement,
			RHS: []syntax.Symbol{
				SymTagOpen, SymPairedTagName, symAttributes, SymTagClose,
				symBody,
				SymTagOpen, SymEndTagName, symAttributes, SymTagClose,
			},
			Aliases: endAlias,
		},
		prodPairedVerbatim: {
			LHS: SymPairedStatement,
			RHS: []syntax.Symbol{
				SymTagOpen, SymPairedTagName, symAttributes, SymTagClose,
				SymRawText,
				SymTagOpen, SymEndTagName, symAttributes, SymTagClose,
			},
			Aliases: endAlias,
		},
		prodBranch: {
			LHS: SymBranchStatement,
			RHS: []syntax.Symbol{SymTagOpen, SymBranchTagName, symAttributes, SymTagClose},
		},
		prodAttributesEmpty:           {LHS: symAttributes},
		prodAttributesKeyword:         node(symAttributes, SymKeyword),
		prodAttributesKeywordOperator: node(symAttributes, SymKeywordOperator),
		prodAttributesOperator:        node(symAttributes, SymOperator),
		prodAttributesNumber:          node(symAttributes, SymNumber),
		prodAttributesBoolean:         node(symAttributes, SymBoolean),
		prodAttributesSeparator:       node(symAttributes, SymSeparator),
		prodAttributesString:          node(symAttributes, SymString),
		prodAttributesVariable:        node(symAttributes, SymVariable),
		prodString:                    {LHS: SymString, RHS: []syntax.Symbol{SymQuoted, symFilters}},
		prodAttributesFilters:         {LHS: symAttributes, RHS: []syntax.Symbol{SymFilter, symFilters}},
	}
}

// Follow sets used by reductions.
var (
	// followNodes may follow a top-level node.
	followNodes = []syntax.Symbol{
		SymEnd, SymContent, SymUnpairedComment, SymPairedComment, SymExpressionOpen, SymTagOpen,
	}
	// followBody may follow a node inside a block.
	followBody = []syntax.Symbol{
		SymContent, SymUnpairedComment, SymPairedComment, SymExpressionOpen, SymTagOpen,
	}
	// followAttribute may follow an attribute inside a tag.
	followAttribute = []syntax.Symbol{
		SymTagClose, SymKeyword, SymKeywordOperator, SymOperator, SymNumber,
		SymBoolean, SymSeparator, SymQuoted, SymVariableName,
	}
	followVariable = append([]syntax.Symbol{SymExpressionClose}, followAttribute...)
	followFilters  = append([]syntax.Symbol{SymPipe}, followVariable...)
	// followFilterChain may follow a filter of the filter tag.
	followFilterChain = []syntax.Symbol{SymPipe, SymTagClose}
)

type tableBuilder struct {
	actions []syntax.ActionEntry
	gotos   []syntax.GotoEntry
}

func (b *tableBuilder) shift(state syntax.StateID, sym syntax.Symbol, target syntax.StateID) {
	b.actions = append(b.actions, syntax.ActionEntry{
		State:  state,
		Symbol: sym,
		Action: syntax.Action{Type: syntax.ActionShift, State: target},
	})
}

func (b *tableBuilder) reduce(state syntax.StateID, production int, lookahead []syntax.Symbol) {
	for _, sym := range lookahead {
		b.actions = append(b.actions, syntax.ActionEntry{
			State:  state,
			Symbol: sym,
			Action: syntax.Action{Type: syntax.ActionReduce, Production: production},
		})
	}
}

func (b *tableBuilder) accept(state syntax.StateID) {
	b.actions = append(b.actions, syntax.ActionEntry{
		State:  state,
		Symbol: SymEnd,
		Action: syntax.Action{Type: syntax.ActionAccept},
	})
}

func (b *tableBuilder) gotoState(state syntax.StateID, sym syntax.Symbol, target syntax.StateID) {
	b.gotos = append(b.gotos, syntax.GotoEntry{State: state, Symbol: sym, Target: target})
}

// attributes adds the transitions of a state that reads tag attributes.
func (b *tableBuilder) attributes(state syntax.StateID) {
	b.shift(state, SymKeyword, 45)
	b.shift(state, SymKeywordOperator, 46)
	b.shift(state, SymOperator, 47)
	b.shift(state, SymNumber, 48)
	b.shift(state, SymBoolean, 49)
	b.shift(state, SymSeparator, 50)
	b.shift(state, SymQuoted, 53)
	b.shift(state, SymVariableName, 10)
	b.gotoState(state, SymString, 51)
	b.gotoState(state, SymVariable, 52)
}

// tableSpec returns the LALR(1) automaton for the template grammar.
func tableSpec() syntax.TableSpec {
	var b tableBuilder

	// Top level.
	b.reduce(0, prodNodesEmpty, followNodes)
	b.gotoState(0, symNodes, 1)

	b.accept(1)
	b.shift(1, SymContent, 2)
	b.shift(1, SymUnpairedComment, 3)
	b.shift(1, SymPairedComment, 4)
	b.shift(1, SymExpressionOpen, 5)
	b.shift(1, SymTagOpen, 6)
	b.gotoState(1, SymExpression, 7)
	b.gotoState(1, SymUnpairedStatement, 8)
	b.gotoState(1, SymPairedStatement, 9)

	b.reduce(2, prodNodesContent, followNodes)
	b.reduce(3, prodNodesUnpairedComment, followNodes)
	b.reduce(4, prodNodesPairedComment, followNodes)
	b.reduce(7, prodNodesExpression, followNodes)
	b.reduce(8, prodNodesUnpaired, followNodes)
	b.reduce(9, prodNodesPaired, followNodes)

	// Expressions and filters.
	b.shift(5, SymVariableName, 10)
	b.gotoState(5, SymVariable, 11)

	b.reduce(10, prodFiltersEmpty, followFilters)
	b.gotoState(10, symFilters, 12)

	b.shift(11, SymExpressionClose, 13)

	b.reduce(12, prodVariable, followVariable)
	b.shift(12, SymPipe, 14)

	b.reduce(13, prodExpression, followNodes)

	b.shift(14, SymFilterName, 15)
	b.gotoState(14, SymFilter, 16)

	b.reduce(15, prodFilter, followFilters)
	b.shift(15, SymColon, 17)

	b.reduce(16, prodFiltersMore, followFilters)

	b.shift(17, SymFilterArgument, 18)

	b.reduce(18, prodFilterArgument, followFilters)

	// Tags.
	b.shift(6, SymTagName, 19)
	b.shift(6, SymPairedTagName, 20)

	b.reduce(19, prodAttributesEmpty, followAttribute)
	b.gotoState(19, symAttributes, 21)

	b.shift(21, SymTagClose, 22)
	b.attributes(21)

	b.reduce(22, prodUnpaired, followNodes)

	b.reduce(20, prodAttributesEmpty, followAttribute)
	b.gotoState(20, symAttributes, 23)

	// "{% filter a|b %}" takes a filter chain instead of attributes. The
	// scanner only lexes a filter name here after the filter tag name.
	b.shift(20, SymFilterName, 15)
	b.gotoState(20, SymFilter, 55)

	b.reduce(55, prodFiltersEmpty, followFilterChain)
	b.gotoState(55, symFilters, 56)

	b.shift(56, SymPipe, 14)
	b.reduce(56, prodAttributesFilters, []syntax.Symbol{SymTagClose})

	b.shift(23, SymTagClose, 24)
	b.attributes(23)

	// After an opening paired tag: raw text or a body.
	b.shift(24, SymRawText, 25)
	b.reduce(24, prodBodyEmpty, followBody)
	b.gotoState(24, symBody, 26)

	b.shift(25, SymTagOpen, 27)
	b.shift(27, SymEndTagName, 28)

	b.reduce(28, prodAttributesEmpty, followAttribute)
	b.gotoState(28, symAttributes, 29)

	b.shift(29, SymTagClose, 30)
	b.attributes(29)

	b.reduce(30, prodPairedVerbatim, followNodes)

	// Block bodies.
	b.shift(26, SymContent, 31)
	b.shift(26, SymUnpairedComment, 32)
	b.shift(26, SymPairedComment, 33)
	b.shift(26, SymExpressionOpen, 5)
	b.shift(26, SymTagOpen, 34)
	b.gotoState(26, SymExpression, 35)
	b.gotoState(26, SymUnpairedStatement, 36)
	b.gotoState(26, SymPairedStatement, 37)
	b.gotoState(26, SymBranchStatement, 38)

	b.reduce(31, prodBodyContent, followBody)
	b.reduce(32, prodBodyUnpairedComment, followBody)
	b.reduce(33, prodBodyPairedComment, followBody)
	b.reduce(35, prodBodyExpression, followBody)
	b.reduce(36, prodBodyUnpaired, followBody)
	b.reduce(37, prodBodyPaired, followBody)
	b.reduce(38, prodBodyBranch, followBody)

	b.shift(34, SymEndTagName, 39)
	b.shift(34, SymTagName, 19)
	b.shift(34, SymPairedTagName, 20)
	b.shift(34, SymBranchTagName, 40)

	b.reduce(39, prodAttributesEmpty, followAttribute)
	b.gotoState(39, symAttributes, 41)

	b.shift(41, SymTagClose, 42)
	b.attributes(41)

	b.reduce(42, prodPaired, followNodes)

	b.reduce(40, prodAttributesEmpty, followAttribute)
	b.gotoState(40, symAttributes, 43)

	b.shift(43, SymTagClose, 44)
	b.attributes(43)

	b.reduce(44, prodBranch, followBody)

	// Attributes.
	for i, prod := range []int{
		prodAttributesKeyword,
		prodAttributesKeywordOperator,
		prodAttributesOperator,
		prodAttributesNumber,
		prodAttributesBoolean,
		prodAttributesSeparator,
		prodAttributesString,
		prodAttributesVariable,
	} {
		b.reduce(syntax.StateID(45+i), prod, followAttribute)
	}

	b.reduce(53, prodFiltersEmpty, followFilters)
	b.gotoState(53, symFilters, 54)

	b.reduce(54, prodString, followAttribute)
	b.shift(54, SymPipe, 14)

	return syntax.TableSpec{
		Symbols:       symbolMetadata[:],
		TerminalCount: int(terminalCount),
		StateCount:    stateCount,
		StartState:    0,
		EndSymbol:     SymEnd,
		ErrorSymbol:   SymError,
		Productions:   productions(),
		Actions:       b.actions,
		Gotos:         b.gotos,
	}
}

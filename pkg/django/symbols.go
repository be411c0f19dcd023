package django

import "github.com/yaklabco/djtree/pkg/syntax"

// Terminal symbols.
const (
	SymEnd syntax.Symbol = iota
	SymContent
	SymExpressionOpen
	SymExpressionClose
	SymTagOpen
	SymTagClose
	SymUnpairedComment
	SymPairedComment
	SymPairedTagName
	SymBranchTagName
	SymEndTagName
	SymTagName
	SymRawText
	SymVariableName
	SymPipe
	SymFilterName
	SymColon
	SymFilterArgument
	SymQuoted
	SymKeyword
	SymKeywordOperator
	SymOperator
	SymNumber
	SymBoolean
	SymSeparator
	SymWhitespace
	SymTrimMarker
	SymTrimmedWhitespace
	SymError

	terminalCount
)

// Nonterminal symbols.
const (
	SymTemplate syntax.Symbol = iota + terminalCount
	symNodes
	symBody
	SymExpression
	SymUnpairedStatement
	SymPairedStatement
	SymBranchStatement
	symAttributes
	SymVariable
	symFilters
	SymFilter
	SymString
	// SymEndPairedStatement only appears as an alias of the closing "%}" of
	// a paired statement.
	SymEndPairedStatement

	symbolCount
)

// Node kind names as they appear in trees.
const (
	KindTemplate           = "template"
	KindContent            = "content"
	KindExpression         = "expression"
	KindVariable           = "variable"
	KindVariableName       = "variable_name"
	KindFilter             = "filter"
	KindFilterName         = "filter_name"
	KindFilterArgument     = "filter_argument"
	KindUnpairedStatement  = "unpaired_statement"
	KindPairedStatement    = "paired_statement"
	KindBranchStatement    = "branch_statement"
	KindEndPairedStatement = "end_paired_statement"
	KindTagName            = "tag_name"
	KindRawText            = "raw_text"
	KindUnpairedComment    = "unpaired_comment"
	KindPairedComment      = "paired_comment"
	KindString             = "string"
	KindKeyword            = "keyword"
	KindKeywordOperator    = "keyword_operator"
	KindOperator           = "operator"
	KindNumber             = "number"
	KindBoolean            = "boolean"
	KindError              = "ERROR"
)

var symbolMetadata = [symbolCount]syntax.SymbolMetadata{
	SymEnd:               {Name: "end"},
	SymContent:           {Name: KindContent, Named: true},
	SymExpressionOpen:    {Name: "{{"},
	SymExpressionClose:   {Name: "}}"},
	SymTagOpen:           {Name: "{%"},
	SymTagClose:          {Name: "%}"},
	SymUnpairedComment:   {Name: KindUnpairedComment, Named: true},
	SymPairedComment:     {Name: KindPairedComment, Named: true},
	SymPairedTagName:     {Name: KindTagName, Named: true},
	SymBranchTagName:     {Name: KindTagName, Named: true},
	SymEndTagName:        {Name: KindTagName, Named: true},
	SymTagName:           {Name: KindTagName, Named: true},
	SymRawText:           {Name: KindRawText, Named: true},
	SymVariableName:      {Name: KindVariableName, Named: true},
	SymPipe:              {Name: "|"},
	SymFilterName:        {Name: KindFilterName, Named: true},
	SymColon:             {Name: ":"},
	SymFilterArgument:    {Name: KindFilterArgument, Named: true},
	SymQuoted:            {Name: "quoted"},
	SymKeyword:           {Name: KindKeyword, Named: true},
	SymKeywordOperator:   {Name: KindKeywordOperator, Named: true},
	SymOperator:          {Name: KindOperator, Named: true},
	SymNumber:            {Name: KindNumber, Named: true},
	SymBoolean:           {Name: KindBoolean, Named: true},
	SymSeparator:         {Name: "separator"},
	SymWhitespace:        {Name: "whitespace", Extra: true},
	SymTrimMarker:        {Name: "trim_marker", Extra: true},
	SymTrimmedWhitespace: {Name: "trimmed_whitespace", Extra: true},
	SymError:             {Name: KindError, Named: true},

	SymTemplate:           {Name: KindTemplate, Named: true},
	symNodes:              {Name: "_nodes", Hidden: true},
	symBody:               {Name: "_body", Hidden: true},
	SymExpression:         {Name: KindExpression, Named: true},
	SymUnpairedStatement:  {Name: KindUnpairedStatement, Named: true},
	SymPairedStatement:    {Name: KindPairedStatement, Named: true},
	SymBranchStatement:    {Name: KindBranchStatement, Named: true},
	symAttributes:         {Name: "_attributes", Hidden: true},
	SymVariable:           {Name: KindVariable, Named: true},
	symFilters:            {Name: "_filters", Hidden: true},
	SymFilter:             {Name: KindFilter, Named: true},
	SymString:             {Name: KindString, Named: true},
	SymEndPairedStatement: {Name: KindEndPairedStatement, Named: true},
}

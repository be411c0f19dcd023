package django

import (
	"unicode/utf8"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// Scanner tokenizes Django templates. It is stateless between calls and
// safe for concurrent use; all context travels in the ScannerState.
type Scanner struct {
	maxBlockDepth int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithMaxBlockDepth bounds the number of open blocks tracked for end-tag
// matching.
func WithMaxBlockDepth(depth int) ScannerOption {
	return func(s *Scanner) {
		if depth > 0 {
			s.maxBlockDepth = depth
		}
	}
}

// NewScanner creates a scanner.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{maxBlockDepth: DefaultMaxBlockDepth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitialState returns the state at the start of a document.
func (s *Scanner) InitialState() syntax.ScannerState {
	return State{}.Encode()
}

// Scan returns the token starting at pos.
func (s *Scanner) Scan(input []byte, pos int, valid syntax.TokenSet, encoded syntax.ScannerState) syntax.ScanResult {
	if pos >= len(input) {
		return syntax.ScanResult{
			Status: syntax.ScanEndOfInput,
			Token: syntax.Token{
				Symbol:       SymEnd,
				StartByte:    len(input),
				EndByte:      len(input),
				LookaheadEnd: len(input) + 1,
			},
			State: encoded,
		}
	}

	lx := &lexer{input: input, far: pos}
	st := DecodeState(encoded)

	var (
		sym  syntax.Symbol
		end  int
		next State
	)
	switch st.Mode {
	case ModeVerbatim:
		sym, end, next = s.scanVerbatim(lx, pos, valid, st)
	case ModeTag, ModeExpression:
		sym, end, next = s.scanTag(lx, pos, valid, st)
	default:
		sym, end, next = s.scanText(lx, pos, valid, st)
	}

	return syntax.ScanResult{
		Status: syntax.ScanMatched,
		Token: syntax.Token{
			Symbol:       sym,
			StartByte:    pos,
			EndByte:      end,
			LookaheadEnd: max(lx.far, end),
		},
		State: next.Encode(),
	}
}

// scanText lexes between tags.
func (s *Scanner) scanText(lx *lexer, pos int, valid syntax.TokenSet, st State) (syntax.Symbol, int, State) {
	if st.TrimNext {
		st.TrimNext = false
		if end := lx.spaces(pos); end > pos {
			return SymTrimmedWhitespace, end, st
		}
	}

	if lx.at(pos) == '{' {
		switch lx.at(pos + 1) {
		case '#':
			return s.scanUnpairedComment(lx, pos, st)
		case '%':
			if valid.Has(SymPairedComment) {
				if sym, end, next, ok := s.scanPairedComment(lx, pos, st); ok {
					return sym, end, next
				}
			}
			return openTag(pos, st)
		case '{':
			return openExpression(pos, st)
		}
	}

	end := pos
	for {
		c := lx.at(end)
		if c < 0 {
			break
		}
		if c == '{' {
			if n := lx.at(end + 1); n == '{' || n == '%' || n == '#' {
				break
			}
		}
		end++
	}

	// Whitespace in front of "{%-" or "{{-" belongs to the trim directive.
	if end < len(lx.input) && lx.at(end+1) != '#' && lx.at(end+2) == '-' {
		trimStart := end
		for trimStart > pos && isSpace(int(lx.input[trimStart-1])) {
			trimStart--
		}
		if trimStart == pos {
			return SymTrimmedWhitespace, end, st
		}
		end = trimStart
	}

	return SymContent, end, st
}

func openTag(pos int, st State) (syntax.Symbol, int, State) {
	st.Mode = ModeTag
	st.Expect = ExpectTagName
	st.AfterOpen = true
	st.VerbatimOpen = false
	return SymTagOpen, pos + 2, st
}

func openExpression(pos int, st State) (syntax.Symbol, int, State) {
	st.Mode = ModeExpression
	st.Expect = ExpectAny
	st.AfterOpen = true
	st.VerbatimOpen = false
	return SymExpressionOpen, pos + 2, st
}

// scanUnpairedComment lexes a nested "{# ... #}" comment.
func (s *Scanner) scanUnpairedComment(lx *lexer, pos int, st State) (syntax.Symbol, int, State) {
	depth := 0
	for i := pos; ; {
		switch {
		case lx.at(i) < 0:
			return SymError, len(lx.input), st
		case lx.hasPrefix(i, "{#"):
			depth++
			i += 2
		case lx.hasPrefix(i, "#}"):
			depth--
			i += 2
			if depth == 0 {
				return SymUnpairedComment, i, st
			}
		default:
			i++
		}
	}
}

// scanPairedComment lexes "{% comment %} ... {% endcomment %}" as one
// token. It reports false when pos does not start a comment tag.
func (s *Scanner) scanPairedComment(lx *lexer, pos int, st State) (syntax.Symbol, int, State, bool) {
	i, _, ok := lx.simpleTag(pos, "comment", true)
	if !ok {
		return 0, 0, st, false
	}

	depth := 1
	for {
		if lx.at(i) < 0 {
			return SymError, len(lx.input), st, true
		}
		if lx.hasPrefix(i, "{%") {
			if end, _, ok := lx.simpleTag(i, "comment", true); ok {
				depth++
				i = end
				continue
			}
			if end, trim, ok := lx.simpleTag(i, "endcomment", false); ok {
				depth--
				i = end
				if depth == 0 {
					st.TrimNext = trim
					return SymPairedComment, i, st, true
				}
				continue
			}
		}
		i++
	}
}

// scanVerbatim lexes the raw body of a verbatim block.
func (s *Scanner) scanVerbatim(lx *lexer, pos int, valid syntax.TokenSet, st State) (syntax.Symbol, int, State) {
	label := st.Label
	st.Mode = ModeText
	st.Label = ""
	st.TrimNext = false
	if !valid.Has(SymRawText) {
		return s.scanText(lx, pos, valid, st)
	}

	depth := 0
	end := len(lx.input)
	for i := pos; lx.at(i) >= 0; {
		if !lx.hasPrefix(i, "{%") {
			i++
			continue
		}
		if next, _, ok := lx.simpleTag(i, "verbatim", true); ok {
			depth++
			i = next
			continue
		}
		if next, closer, ok := lx.endVerbatim(i); ok {
			if depth == 0 && closer == label {
				end = i
				break
			}
			if depth > 0 {
				depth--
			}
			i = next
			continue
		}
		i++
	}

	if end == pos {
		return s.scanText(lx, pos, valid, st)
	}
	return SymRawText, end, st
}

// scanTag lexes inside "{% %}" and "{{ }}".
func (s *Scanner) scanTag(lx *lexer, pos int, valid syntax.TokenSet, st State) (syntax.Symbol, int, State) {
	c := lx.at(pos)

	switch {
	case isSpace(c):
		st.AfterOpen = false
		return SymWhitespace, lx.spaces(pos), st
	case c == '-' && (st.AfterOpen || lx.hasPrefix(pos+1, "%}") || lx.hasPrefix(pos+1, "}}")):
		if !st.AfterOpen {
			st.TrimNext = true
		}
		st.AfterOpen = false
		return SymTrimMarker, pos + 1, st
	case lx.hasPrefix(pos, "%}"):
		return closeTag(SymTagClose, pos, st)
	case lx.hasPrefix(pos, "}}"):
		return closeTag(SymExpressionClose, pos, st)
	case lx.hasPrefix(pos, "{%"):
		return openTag(pos, st)
	case lx.hasPrefix(pos, "{{"):
		return openExpression(pos, st)
	}

	st.AfterOpen = false
	expect := st.Expect
	st.Expect = ExpectAny

	switch expect {
	case ExpectTagName:
		if end := lx.word(pos); end > pos {
			if sym, next, ok := s.classifyTagName(string(lx.input[pos:end]), valid, st); ok {
				return sym, end, next
			}
		}
	case ExpectFilterName:
		if end := lx.word(pos); end > pos && valid.Has(SymFilterName) {
			return SymFilterName, end, st
		}
	case ExpectFilterArgument:
		if valid.Has(SymFilterArgument) {
			if end := lx.filterArgument(pos); end > pos {
				return SymFilterArgument, end, st
			}
		}
	}

	if sym, end, ok := s.scanAttribute(lx, pos, valid, &st); ok {
		return sym, end, st
	}

	return SymError, lx.stuckSpan(pos), st
}

func closeTag(sym syntax.Symbol, pos int, st State) (syntax.Symbol, int, State) {
	st.Mode = ModeText
	if sym == SymTagClose && st.VerbatimOpen {
		st.Mode = ModeVerbatim
	} else {
		st.Label = ""
	}
	st.VerbatimOpen = false
	st.Expect = ExpectAny
	st.AfterOpen = false
	return sym, pos + 2, st
}

// scanAttribute lexes filters, literals and variables.
func (s *Scanner) scanAttribute(lx *lexer, pos int, valid syntax.TokenSet, st *State) (syntax.Symbol, int, bool) {
	c := lx.at(pos)

	switch {
	case c == '|' && valid.Has(SymPipe):
		st.Expect = ExpectFilterName
		return SymPipe, pos + 1, true
	case c == ':' && valid.Has(SymColon):
		st.Expect = ExpectFilterArgument
		return SymColon, pos + 1, true
	case (c == '"' || c == '\'') && valid.Has(SymQuoted):
		end, ok := lx.quoted(pos)
		if !ok {
			return SymError, end, true
		}
		return SymQuoted, end, true
	case valid.Has(SymOperator) && lx.operator(pos) > pos:
		return SymOperator, lx.operator(pos), true
	case (c == ',' || c == '=') && valid.Has(SymSeparator):
		return SymSeparator, pos + 1, true
	case isDigit(c) && valid.Has(SymNumber):
		end := pos
		for isDigit(lx.at(end)) {
			end++
		}
		return SymNumber, end, true
	case isLetter(c):
		return s.scanWord(lx, pos, valid, st)
	}

	return 0, 0, false
}

func (s *Scanner) scanWord(lx *lexer, pos int, valid syntax.TokenSet, st *State) (syntax.Symbol, int, bool) {
	if valid.Has(SymKeywordOperator) {
		if end := lx.keywordOperator(pos); end > pos {
			return SymKeywordOperator, end, true
		}
	}

	end := lx.word(pos)
	word := string(lx.input[pos:end])
	followedBySpace := isSpace(lx.at(end))

	if valid.Has(SymKeyword) && keywords[word] && followedBySpace {
		return SymKeyword, end, true
	}
	if valid.Has(SymBoolean) && (word == "True" || word == "False") && followedBySpace {
		return SymBoolean, end, true
	}
	if valid.Has(SymVariableName) {
		end = lx.variableName(pos)
		if st.VerbatimOpen && st.Label == "" {
			st.Label = string(lx.input[pos:end])
		}
		return SymVariableName, end, true
	}
	return 0, 0, false
}

// lexer reads input and records how far it looked.
type lexer struct {
	input []byte
	far   int
}

// at returns the byte at i, or -1 past the end.
func (lx *lexer) at(i int) int {
	if i >= len(lx.input) {
		lx.far = max(lx.far, len(lx.input)+1)
		return -1
	}
	lx.far = max(lx.far, i+1)
	return int(lx.input[i])
}

func (lx *lexer) hasPrefix(i int, lit string) bool {
	for j := range len(lit) {
		if lx.at(i+j) != int(lit[j]) {
			return false
		}
	}
	return true
}

func (lx *lexer) spaces(i int) int {
	for isSpace(lx.at(i)) {
		i++
	}
	return i
}

func (lx *lexer) blanks(i int) int {
	for c := lx.at(i); c == ' ' || c == '\t'; c = lx.at(i) {
		i++
	}
	return i
}

func (lx *lexer) word(i int) int {
	for isWordChar(lx.at(i)) {
		i++
	}
	return i
}

// variableName matches [a-zA-Z]\w*(\.\w+)*.
func (lx *lexer) variableName(i int) int {
	if !isLetter(lx.at(i)) {
		return i
	}
	i++
	for {
		c := lx.at(i)
		switch {
		case isWordChar(c):
			i++
		case c == '.' && isWordChar(lx.at(i+1)):
			i += 2
		default:
			return i
		}
	}
}

// filterArgument matches a quoted string or -?\w+(\.\w+)*.
func (lx *lexer) filterArgument(i int) int {
	if c := lx.at(i); c == '"' || c == '\'' {
		end, ok := lx.quoted(i)
		if !ok {
			return i
		}
		return end
	}
	start := i
	if lx.at(i) == '-' {
		i++
	}
	if !isWordChar(lx.at(i)) {
		return start
	}
	for {
		c := lx.at(i)
		switch {
		case isWordChar(c):
			i++
		case c == '.' && isWordChar(lx.at(i+1)):
			i += 2
		default:
			return i
		}
	}
}

// quoted matches a single- or double-quoted string. An unterminated string
// stops before a newline or tag closer and reports false.
func (lx *lexer) quoted(i int) (int, bool) {
	quote := lx.at(i)
	i++
	for {
		c := lx.at(i)
		switch {
		case c < 0 || c == '\n' || lx.hasPrefix(i, "%}") || lx.hasPrefix(i, "}}"):
			return i, false
		case c == quote:
			return i + 1, true
		default:
			i++
		}
	}
}

func (lx *lexer) operator(i int) int {
	for _, op := range []string{"==", "!=", "<=", ">="} {
		if lx.hasPrefix(i, op) {
			return i + 2
		}
	}
	if c := lx.at(i); c == '<' || c == '>' {
		return i + 1
	}
	return i
}

// keywordOperator matches and, or, not, in, is, "not in" and "is not" when
// followed by whitespace.
func (lx *lexer) keywordOperator(i int) int {
	for _, pair := range [][2]string{{"not", "in"}, {"is", "not"}} {
		if end := lx.keyword(i, pair[0]); end > i {
			if second := lx.keyword(lx.blanks(end), pair[1]); second > end {
				return second
			}
		}
	}
	for _, op := range keywordOperators {
		if end := lx.keyword(i, op); end > i {
			return end
		}
	}
	return i
}

// keyword matches word at i when it is followed by whitespace.
func (lx *lexer) keyword(i int, word string) int {
	if !lx.hasPrefix(i, word) || !isSpace(lx.at(i+len(word))) {
		return i
	}
	return i + len(word)
}

// simpleTag matches "{%[-] name [label] [-]%}" at i and returns the end
// offset and whether the closer carries a trim marker.
func (lx *lexer) simpleTag(i int, name string, allowLabel bool) (int, bool, bool) {
	if !lx.hasPrefix(i, "{%") {
		return i, false, false
	}
	i += 2
	if lx.at(i) == '-' {
		i++
	}
	i = lx.blanks(i)
	if !lx.hasPrefix(i, name) || isWordChar(lx.at(i+len(name))) {
		return i, false, false
	}
	i = lx.blanks(i + len(name))
	if allowLabel {
		if c := lx.at(i); c == '"' || c == '\'' {
			end, ok := lx.quoted(i)
			if !ok {
				return i, false, false
			}
			i = lx.blanks(end)
		} else {
			i = lx.blanks(lx.word(i))
		}
	}
	trim := false
	if lx.at(i) == '-' {
		trim = true
		i++
	}
	if !lx.hasPrefix(i, "%}") {
		return i, false, false
	}
	return i + 2, trim, true
}

// endVerbatim matches "{% endverbatim [label] %}" and returns its label.
func (lx *lexer) endVerbatim(i int) (int, string, bool) {
	end, _, ok := lx.simpleTag(i, "endverbatim", true)
	if !ok {
		return i, "", false
	}
	j := lx.blanks(i + 2)
	if lx.at(i+2) == '-' {
		j = lx.blanks(i + 3)
	}
	j = lx.blanks(j + len("endverbatim"))
	return end, string(lx.input[j:lx.word(j)]), true
}

// stuckSpan returns the end of input nothing can tokenize: at least one
// rune, up to whitespace or a delimiter character.
func (lx *lexer) stuckSpan(pos int) int {
	_, width := utf8.DecodeRune(lx.input[pos:])
	end := pos + max(width, 1)
	for {
		c := lx.at(end)
		if c < 0 || isSpace(c) || c == '{' || c == '}' || c == '%' {
			return end
		}
		if c == '-' && (lx.hasPrefix(end+1, "%}") || lx.hasPrefix(end+1, "}}")) {
			return end
		}
		end++
	}
}

func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c int) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

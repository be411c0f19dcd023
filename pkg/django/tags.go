package django

import (
	"strings"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// pairedTags open a block closed by "end" + name.
var pairedTags = map[string]bool{
	"autoescape":     true,
	"block":          true,
	"blocktranslate": true,
	"blocktrans":     true,
	"filter":         true,
	"for":            true,
	"if":             true,
	"ifchanged":      true,
	"spaceless":      true,
	"verbatim":       true,
	"with":           true,
}

// branchTags lists the branch names allowed directly inside each block.
var branchTags = map[string][]string{
	"if":        {"elif", "else"},
	"for":       {"empty"},
	"ifchanged": {"else"},
}

var keywords = map[string]bool{
	"on":     true,
	"off":    true,
	"with":   true,
	"as":     true,
	"silent": true,
	"only":   true,
	"from":   true,
	"random": true,
	"by":     true,
}

var keywordOperators = []string{"and", "or", "not", "in", "is"}

// IsPairedTag reports whether name opens a block that needs an end tag.
func IsPairedTag(name string) bool {
	return pairedTags[name]
}

// PairedTags returns the names of block tags in sorted order.
func PairedTags() []string {
	return []string{
		"autoescape", "block", "blocktrans", "blocktranslate", "filter", "for",
		"if", "ifchanged", "spaceless", "verbatim", "with",
	}
}

// IsBranchTag reports whether name is a branch of the block opened by parent.
func IsBranchTag(parent, name string) bool {
	for _, branch := range branchTags[parent] {
		if branch == name {
			return true
		}
	}
	return false
}

// EndTagFor returns the closing tag name for a paired tag.
func EndTagFor(name string) string {
	return "end" + name
}

// classifyTagName decides which tag-name terminal name is, given the
// terminals the parser accepts and the open blocks.
func (s *Scanner) classifyTagName(name string, valid syntax.TokenSet, st State) (syntax.Symbol, State, bool) {
	if valid.Has(SymEndTagName) {
		if st.Untracked > 0 {
			if opened, ok := strings.CutPrefix(name, "end"); ok && IsPairedTag(opened) {
				return SymEndTagName, st.pop(), true
			}
		} else if top := st.top(); top != "" && name == EndTagFor(top) {
			return SymEndTagName, st.pop(), true
		}
	}

	if valid.Has(SymBranchTagName) && st.Untracked == 0 && IsBranchTag(st.top(), name) {
		return SymBranchTagName, st, true
	}

	if valid.Has(SymPairedTagName) && IsPairedTag(name) {
		next := st.push(name, s.maxBlockDepth)
		switch name {
		case "verbatim":
			next.VerbatimOpen = true
			next.Label = ""
		case "filter":
			next.Expect = ExpectFilterName
		}
		return SymPairedTagName, next, true
	}

	if valid.Has(SymTagName) {
		return SymTagName, st, true
	}

	return 0, st, false
}

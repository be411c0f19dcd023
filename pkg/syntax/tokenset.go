package syntax

import "math/bits"

// MaxTerminals is the largest number of terminal symbols a table may declare.
const MaxTerminals = 256

// TokenSet is a fixed-size bitset of terminal symbols. It is comparable with ==.
type TokenSet [MaxTerminals / 64]uint64

// NewTokenSet returns a set holding syms.
func NewTokenSet(syms ...Symbol) TokenSet {
	var set TokenSet
	for _, sym := range syms {
		set = set.With(sym)
	}
	return set
}

// With returns a copy of s that also holds sym.
func (s TokenSet) With(sym Symbol) TokenSet {
	if int(sym) >= MaxTerminals {
		return s
	}
	s[sym/64] |= 1 << (sym % 64)
	return s
}

// Has reports whether sym is in the set.
func (s TokenSet) Has(sym Symbol) bool {
	if int(sym) >= MaxTerminals {
		return false
	}
	return s[sym/64]&(1<<(sym%64)) != 0
}

// Union returns the symbols held by either set.
func (s TokenSet) Union(other TokenSet) TokenSet {
	for i := range s {
		s[i] |= other[i]
	}
	return s
}

// Len returns the number of symbols in the set.
func (s TokenSet) Len() int {
	n := 0
	for _, word := range s {
		n += bits.OnesCount64(word)
	}
	return n
}

// Symbols returns the members in ascending order.
func (s TokenSet) Symbols() []Symbol {
	syms := make([]Symbol, 0, s.Len())
	for i, word := range s {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			syms = append(syms, Symbol(i*64+bit))
			word &^= 1 << bit
		}
	}
	return syms
}

package syntax

// ScannerState is the serialized scanner state at a token boundary. It is
// opaque to the engine and compared with ==.
type ScannerState string

// ScanStatus reports the outcome of a Scan call.
type ScanStatus uint8

// Scan outcomes.
const (
	ScanMatched ScanStatus = iota
	ScanNoMatch
	ScanEndOfInput
)

// String returns the status name.
func (s ScanStatus) String() string {
	switch s {
	case ScanMatched:
		return "matched"
	case ScanNoMatch:
		return "no-match"
	case ScanEndOfInput:
		return "end-of-input"
	default:
		return "unknown"
	}
}

// Token is a lexical unit with absolute byte offsets.
type Token struct {
	Symbol    Symbol
	StartByte int
	EndByte   int
	// LookaheadEnd is one past the last byte examined to produce the token.
	// Observing end of input sets it to len(input)+1.
	LookaheadEnd int
}

// ScanResult is the result of one Scan call.
type ScanResult struct {
	Status ScanStatus
	Token  Token
	State  ScannerState
}

// Scanner turns bytes into tokens. Implementations must be deterministic and
// must not retain input. The caller guarantees 0 <= pos <= len(input).
type Scanner interface {
	// InitialState returns the state at byte 0.
	InitialState() ScannerState
	// Scan returns the next token starting at pos, restricted to valid
	// where possible.
	Scan(input []byte, pos int, valid TokenSet, state ScannerState) ScanResult
}

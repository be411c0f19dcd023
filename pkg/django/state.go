package django

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// DefaultMaxBlockDepth bounds the open-block stack kept in scanner state.
const DefaultMaxBlockDepth = 64

// Mode is the lexical context of the scanner.
type Mode uint8

// Scanner modes.
const (
	ModeText Mode = iota
	ModeTag
	ModeExpression
	ModeVerbatim
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeTag:
		return "tag"
	case ModeExpression:
		return "expression"
	case ModeVerbatim:
		return "verbatim"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Expect narrows what the next word inside a tag may be.
type Expect uint8

// Expectations inside tags.
const (
	ExpectAny Expect = iota
	ExpectTagName
	ExpectFilterName
	ExpectFilterArgument
)

// State is the scanner state carried between tokens.
type State struct {
	Mode   Mode
	Expect Expect
	// AfterOpen is set right after "{%" or "{{", where "-" is a trim marker.
	AfterOpen bool
	// TrimNext makes leading whitespace of the next text trimmed.
	TrimNext bool
	// VerbatimOpen is set inside a "{% verbatim %}" opening tag.
	VerbatimOpen bool
	// Label is the verbatim block label, if any.
	Label string
	// Blocks is the stack of open paired tag names.
	Blocks []string
	// Untracked counts paired blocks opened beyond the depth limit.
	Untracked int
}

const (
	bitAfterOpen = 1 << iota
	bitTrimNext
	bitVerbatimOpen
)

var errTruncatedState = errors.New("truncated scanner state")

// Serialize encodes the state. Equal states encode to equal bytes.
func (s State) Serialize() []byte {
	var flags byte
	if s.AfterOpen {
		flags |= bitAfterOpen
	}
	if s.TrimNext {
		flags |= bitTrimNext
	}
	if s.VerbatimOpen {
		flags |= bitVerbatimOpen
	}

	buf := make([]byte, 0, 8+len(s.Label)+8*len(s.Blocks))
	buf = append(buf, byte(s.Mode), byte(s.Expect), flags)
	buf = binary.AppendUvarint(buf, uint64(s.Untracked))
	buf = appendString(buf, s.Label)
	buf = binary.AppendUvarint(buf, uint64(len(s.Blocks)))
	for _, block := range s.Blocks {
		buf = appendString(buf, block)
	}
	return buf
}

// Deserialize decodes data produced by Serialize.
func (s *State) Deserialize(data []byte) error {
	*s = State{}
	if len(data) == 0 {
		return nil
	}
	if len(data) < 3 {
		return errTruncatedState
	}
	s.Mode = Mode(data[0])
	s.Expect = Expect(data[1])
	flags := data[2]
	s.AfterOpen = flags&bitAfterOpen != 0
	s.TrimNext = flags&bitTrimNext != 0
	s.VerbatimOpen = flags&bitVerbatimOpen != 0

	r := stateReader{data: data[3:]}
	s.Untracked = int(r.uvarint())
	s.Label = r.string()
	count := int(r.uvarint())
	if count > 0 && r.err == nil {
		s.Blocks = make([]string, 0, min(count, DefaultMaxBlockDepth))
		for range count {
			s.Blocks = append(s.Blocks, r.string())
			if r.err != nil {
				break
			}
		}
	}
	return r.err
}

// Encode returns the state as an engine ScannerState.
func (s State) Encode() syntax.ScannerState {
	return syntax.ScannerState(s.Serialize())
}

// DecodeState parses an engine ScannerState. Malformed input yields the
// initial state.
func DecodeState(state syntax.ScannerState) State {
	var s State
	if err := s.Deserialize([]byte(state)); err != nil {
		return State{}
	}
	return s
}

// top returns the innermost open block, or "".
func (s State) top() string {
	if len(s.Blocks) == 0 {
		return ""
	}
	return s.Blocks[len(s.Blocks)-1]
}

func (s State) push(name string, maxDepth int) State {
	if len(s.Blocks) >= maxDepth {
		s.Untracked++
		return s
	}
	blocks := make([]string, len(s.Blocks), len(s.Blocks)+1)
	copy(blocks, s.Blocks)
	s.Blocks = append(blocks, name)
	return s
}

func (s State) pop() State {
	if s.Untracked > 0 {
		s.Untracked--
		return s
	}
	switch len(s.Blocks) {
	case 0:
	case 1:
		s.Blocks = nil
	default:
		s.Blocks = s.Blocks[:len(s.Blocks)-1 : len(s.Blocks)-1]
	}
	return s
}

func appendString(buf []byte, str string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(str)))
	return append(buf, str...)
}

type stateReader struct {
	data []byte
	err  error
}

func (r *stateReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data)
	if n <= 0 {
		r.err = errTruncatedState
		return 0
	}
	r.data = r.data[n:]
	return v
}

func (r *stateReader) string() string {
	n := int(r.uvarint())
	if r.err != nil {
		return ""
	}
	if n > len(r.data) {
		r.err = errTruncatedState
		return ""
	}
	str := string(r.data[:n])
	r.data = r.data[n:]
	return str
}

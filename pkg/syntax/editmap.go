package syntax

import (
	"fmt"
	"math"
)

// Edit describes a replacement of [StartByte, OldEndByte) by new text ending
// at NewEndByte.
type Edit struct {
	StartByte   int   `json:"startByte"`
	OldEndByte  int   `json:"oldEndByte"`
	NewEndByte  int   `json:"newEndByte"`
	StartPoint  Point `json:"startPoint"`
	OldEndPoint Point `json:"oldEndPoint"`
	NewEndPoint Point `json:"newEndPoint"`
}

// Delta returns the change in document length.
func (e Edit) Delta() int {
	return e.NewEndByte - e.OldEndByte
}

// validate checks e against a document of length docLen.
func (e Edit) validate(docLen int) error {
	switch {
	case e.StartByte < 0:
		return fmt.Errorf("%w: negative start %d", ErrInvalidEdit, e.StartByte)
	case e.OldEndByte < e.StartByte:
		return fmt.Errorf("%w: old end %d before start %d", ErrInvalidEdit, e.OldEndByte, e.StartByte)
	case e.NewEndByte < e.StartByte:
		return fmt.Errorf("%w: new end %d before start %d", ErrInvalidEdit, e.NewEndByte, e.StartByte)
	case e.OldEndByte > docLen:
		return fmt.Errorf("%w: old end %d beyond document length %d", ErrInvalidEdit, e.OldEndByte, docLen)
	}
	return nil
}

// segment maps a run of unchanged bytes between the new and old text.
type segment struct {
	newStart int
	oldStart int
	length   int
	// tail segments reach the end of both texts, so bytes examined past
	// the old end of input are still unchanged.
	tail bool
}

func (s segment) newEnd() int {
	return s.newStart + s.length
}

// editMap composes a sequence of edits into the unchanged segments they
// leave behind.
type editMap struct {
	segments []segment
	newLen   int
}

func newEditMap(oldLen int, edits []Edit) (*editMap, error) {
	m := &editMap{
		segments: []segment{{length: oldLen, tail: true}},
		newLen:   oldLen,
	}
	for _, edit := range edits {
		if err := edit.validate(m.newLen); err != nil {
			return nil, err
		}
		m.apply(edit)
	}
	return m, nil
}

func (m *editMap) apply(edit Edit) {
	delta := edit.Delta()
	next := make([]segment, 0, len(m.segments)+1)

	for _, seg := range m.segments {
		end := seg.newEnd()

		if before := min(end, edit.StartByte) - seg.newStart; before > 0 {
			next = append(next, segment{
				newStart: seg.newStart,
				oldStart: seg.oldStart,
				length:   before,
				tail:     seg.tail && edit.StartByte > end,
			})
		}

		if from := max(seg.newStart, edit.OldEndByte); from < end {
			next = append(next, segment{
				newStart: from + delta,
				oldStart: seg.oldStart + (from - seg.newStart),
				length:   end - from,
				tail:     seg.tail,
			})
		}
	}

	m.segments = next
	m.newLen += delta
}

// lookup maps a new offset to its old offset and the old offset at which
// its unchanged segment ends.
func (m *editMap) lookup(newOffset int) (oldOffset, oldLimit int, ok bool) {
	for _, seg := range m.segments {
		if newOffset < seg.newStart {
			break
		}
		if newOffset < seg.newEnd() {
			oldLimit = seg.oldStart + seg.length
			if seg.tail {
				oldLimit = math.MaxInt
			}
			return seg.oldStart + (newOffset - seg.newStart), oldLimit, true
		}
	}
	return 0, 0, false
}

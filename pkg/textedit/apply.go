package textedit

import (
	"bytes"

	"github.com/yaklabco/djtree/pkg/source"
	"github.com/yaklabco/djtree/pkg/syntax"
)

// Apply applies a sorted, validated slice of edits to content.
// Edits must be prepared with Prepare before calling.
func Apply(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// SyntaxEdits describes prepared edits of content as a sequence of syntax
// edits. Each syntax edit is expressed in the coordinates of the text
// produced by the ones before it, which is how syntax.Tree.Edit composes.
func SyntaxEdits(content []byte, edits []TextEdit) []syntax.Edit {
	if len(edits) == 0 {
		return nil
	}

	out := make([]syntax.Edit, 0, len(edits))
	text := content
	shift := 0
	for _, e := range edits {
		snap := source.NewSnapshot("", text)
		start := e.StartOffset + shift
		oldEnd := e.EndOffset + shift
		newEnd := start + len(e.NewText)

		startPoint := snap.Point(start)
		out = append(out, syntax.Edit{
			StartByte:   start,
			OldEndByte:  oldEnd,
			NewEndByte:  newEnd,
			StartPoint:  startPoint,
			OldEndPoint: snap.Point(oldEnd),
			NewEndPoint: advance(startPoint, e.NewText),
		})

		text = Apply(text, []TextEdit{{StartOffset: start, EndOffset: oldEnd, NewText: e.NewText}})
		shift += e.Delta()
	}
	return out
}

// advance returns the point reached after writing text at p.
func advance(p syntax.Point, text string) syntax.Point {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			p.Row++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}

// Diff returns the single edit that turns before into after: the span
// between their common prefix and common suffix. ok is false when they are
// equal.
func Diff(before, after []byte) (TextEdit, bool) {
	if bytes.Equal(before, after) {
		return TextEdit{}, false
	}

	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	return TextEdit{
		StartOffset: prefix,
		EndOffset:   len(before) - suffix,
		NewText:     string(after[prefix : len(after)-suffix]),
	}, true
}

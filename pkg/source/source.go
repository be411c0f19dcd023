// Package source indexes template text by line so byte offsets, 1-based
// line/column positions and zero-based syntax points convert cheaply.
package source

import (
	"sort"

	"github.com/yaklabco/djtree/pkg/syntax"
)

// LineInfo describes one line of a file.
type LineInfo struct {
	// StartOffset is the byte offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator ("\n" or "\r\n"),
	// or the end of content for a final line without one.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// Snapshot is an immutable view of a file's content with a line index.
type Snapshot struct {
	Path    string
	Content []byte
	Lines   []LineInfo
}

// NewSnapshot indexes content.
func NewSnapshot(path string, content []byte) *Snapshot {
	return &Snapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings. Empty content has a
// single empty line.
func BuildLines(content []byte) []LineInfo {
	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > lineStart && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	return append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})
}

// LineCount returns the number of lines in the file.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// lineIndex returns the zero-based line containing offset. Offsets past the
// end belong to the last line.
func (s *Snapshot) lineIndex(offset int) int {
	idx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	return min(idx, len(s.Lines)-1)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) for a negative offset.
func (s *Snapshot) LineAt(offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	offset = min(offset, len(s.Content))
	idx := s.lineIndex(offset)
	return idx + 1, offset - s.Lines[idx].StartOffset + 1
}

// Point converts a byte offset to a zero-based syntax point.
func (s *Snapshot) Point(offset int) syntax.Point {
	line, col := s.LineAt(max(offset, 0))
	return syntax.Point{Row: line - 1, Column: col - 1}
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (s *Snapshot) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(s.Lines) || col < 1 {
		return 0, false
	}

	info := s.Lines[line-1]
	offset := info.StartOffset + col - 1

	// Column may point just past the line content (cursor position).
	if offset > info.NewlineStart {
		return 0, false
	}
	return offset, true
}

// LineContent returns the content of a 1-based line number, excluding the
// line terminator. Returns nil if the line number is out of range.
func (s *Snapshot) LineContent(line int) []byte {
	if line < 1 || line > len(s.Lines) {
		return nil
	}
	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}

package syntax

import "fmt"

// Point is a zero-based row/column position. Columns count bytes.
type Point struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Add returns the point reached by advancing p by the extent d.
func (p Point) Add(d Point) Point {
	if d.Row > 0 {
		return Point{Row: p.Row + d.Row, Column: d.Column}
	}
	return Point{Row: p.Row, Column: p.Column + d.Column}
}

// Less reports whether p comes before other.
func (p Point) Less(other Point) bool {
	return p.Row < other.Row || (p.Row == other.Row && p.Column < other.Column)
}

// String returns "row:column" using one-based numbers for display.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}

// extentOf returns the point extent covered by text.
func extentOf(text []byte) Point {
	var ext Point
	for _, b := range text {
		if b == '\n' {
			ext.Row++
			ext.Column = 0
			continue
		}
		ext.Column++
	}
	return ext
}

// Range is a byte and point span.
type Range struct {
	StartByte  int   `json:"startByte"`
	EndByte    int   `json:"endByte"`
	StartPoint Point `json:"startPoint"`
	EndPoint   Point `json:"endPoint"`
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return r.EndByte - r.StartByte
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.EndByte <= r.StartByte
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.StartByte && offset < r.EndByte
}

// Overlaps reports whether r and other share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.StartByte < other.EndByte && other.StartByte < r.EndByte
}

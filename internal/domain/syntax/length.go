// Package syntax contains the concrete syntax tree produced by the ucode parser: immutable,
// position-relative subtrees shared between successive parses, and the Tree/Node views
// over them.
package syntax

import (
	"fmt"

	"tree-sitter-ucode/internal/domain/errors/domain"
)

// Point is a zero-based row/column position. Columns count bytes.
type Point struct {
	Row    uint32 `json:"row"    yaml:"row"`
	Column uint32 `json:"column" yaml:"column"`
}

// String formats the point as row:column, one-based for humans.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}

// Less orders points by row, then column.
func (p Point) Less(o Point) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Column < o.Column
}

// Length is a span of text measured in bytes and in rows/columns.
type Length struct {
	Bytes  uint32
	Extent Point
}

// Add appends b after a.
func (a Length) Add(b Length) Length {
	if b.Extent.Row > 0 {
		return Length{
			Bytes:  a.Bytes + b.Bytes,
			Extent: Point{Row: a.Extent.Row + b.Extent.Row, Column: b.Extent.Column},
		}
	}
	return Length{
		Bytes:  a.Bytes + b.Bytes,
		Extent: Point{Row: a.Extent.Row, Column: a.Extent.Column + b.Extent.Column},
	}
}

// Sub returns the length from b to a. b must not be after a.
func (a Length) Sub(b Length) Length {
	if a.Bytes <= b.Bytes {
		return Length{}
	}
	if a.Extent.Row > b.Extent.Row {
		return Length{
			Bytes:  a.Bytes - b.Bytes,
			Extent: Point{Row: a.Extent.Row - b.Extent.Row, Column: a.Extent.Column},
		}
	}
	col := uint32(0)
	if a.Extent.Column > b.Extent.Column {
		col = a.Extent.Column - b.Extent.Column
	}
	return Length{Bytes: a.Bytes - b.Bytes, Extent: Point{Column: col}}
}

// LengthOf measures text.
func LengthOf(text []byte) Length {
	var l Length
	for _, c := range text {
		l.Bytes++
		if c == '\n' {
			l.Extent.Row++
			l.Extent.Column = 0
		} else {
			l.Extent.Column++
		}
	}
	return l
}

// Range is a span of source text.
type Range struct {
	StartByte  uint32 `json:"start_byte"  yaml:"start_byte"`
	EndByte    uint32 `json:"end_byte"    yaml:"end_byte"`
	StartPoint Point  `json:"start_point" yaml:"start_point"`
	EndPoint   Point  `json:"end_point"   yaml:"end_point"`
}

// InputEdit describes a text replacement: the bytes [StartByte, OldEndByte) were
// replaced by text now occupying [StartByte, NewEndByte).
type InputEdit struct {
	StartByte   uint32
	OldEndByte  uint32
	NewEndByte  uint32
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// NewInputEdit computes the edit that replaces src[start:oldEnd] with text.
func NewInputEdit(src []byte, start, oldEnd uint32, text []byte) (InputEdit, error) {
	if start > oldEnd || int(oldEnd) > len(src) {
		return InputEdit{}, fmt.Errorf("edit [%d, %d) outside source of %d bytes: %w",
			start, oldEnd, len(src), domain.ErrInvalidEdit)
	}
	startPos := LengthOf(src[:start])
	oldEndPos := startPos.Add(LengthOf(src[start:oldEnd]))
	newEndPos := startPos.Add(LengthOf(text))
	return InputEdit{
		StartByte:   start,
		OldEndByte:  oldEnd,
		NewEndByte:  newEndPos.Bytes,
		StartPoint:  startPos.Extent,
		OldEndPoint: oldEndPos.Extent,
		NewEndPoint: newEndPos.Extent,
	}, nil
}

// Apply returns src with the edit applied, given the inserted text.
func (e InputEdit) Apply(src, text []byte) []byte {
	out := make([]byte, 0, len(src)-int(e.OldEndByte-e.StartByte)+len(text))
	out = append(out, src[:e.StartByte]...)
	out = append(out, text...)
	return append(out, src[e.OldEndByte:]...)
}

func (e InputEdit) valid() bool {
	return e.StartByte <= e.OldEndByte && e.StartByte <= e.NewEndByte
}

// mapPosition translates an absolute position of the pre-edit text into the post-edit
// text. The start of a replaced region stays put; positions inside it collapse to the
// end of the new text.
func (e InputEdit) mapPosition(p Length) Length {
	if p.Bytes < e.StartByte || (p.Bytes == e.StartByte && e.OldEndByte > e.StartByte) {
		return p
	}
	if p.Bytes >= e.OldEndByte {
		out := Length{Bytes: p.Bytes - e.OldEndByte + e.NewEndByte}
		if p.Extent.Row == e.OldEndPoint.Row {
			out.Extent = Point{
				Row:    e.NewEndPoint.Row,
				Column: e.NewEndPoint.Column + p.Extent.Column - e.OldEndPoint.Column,
			}
		} else {
			out.Extent = Point{
				Row:    p.Extent.Row - e.OldEndPoint.Row + e.NewEndPoint.Row,
				Column: p.Extent.Column,
			}
		}
		return out
	}
	return Length{Bytes: e.NewEndByte, Extent: e.NewEndPoint}
}

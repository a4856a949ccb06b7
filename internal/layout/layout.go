// Package layout turns a book's paragraphs into fixed-width display lines
// and viewport-sized pages, and tracks the reading position across reflow.
//
// The durable coordinate system is Position (chapter, paragraph, word).
// Line and page indexes are derived from it and thrown away whenever the
// viewport or style changes; the position itself never is.
package layout

import "errors"

// ErrBoundary signals navigation past the first or last page of the book.
// It is an expected no-op signal, not a failure.
var ErrBoundary = errors.New("layout: already at book boundary")

// Position is a logical reading position, independent of any wrap width or
// page size. It is the only representation that survives reflow.
type Position struct {
	Chapter   int `json:"chapter"`
	Paragraph int `json:"paragraph"`
	Word      int `json:"word"`
}

// Before reports whether p orders strictly before o in reading order.
func (p Position) Before(o Position) bool {
	if p.Chapter != o.Chapter {
		return p.Chapter < o.Chapter
	}
	if p.Paragraph != o.Paragraph {
		return p.Paragraph < o.Paragraph
	}
	return p.Word < o.Word
}

// Line is one rendered display line. Pos back-maps the line to the logical
// text where it begins; iterating a chapter's lines in order yields
// non-decreasing positions.
type Line struct {
	Text string
	Pos  Position
}

// Blank reports whether the line renders no text.
func (l Line) Blank() bool {
	return l.Text == ""
}

// Page is a contiguous run of display lines from a single chapter, sized to
// the viewport height. Only a chapter's final page may be shorter, and only
// when fill-to-next-chapter is off.
type Page struct {
	Chapter int
	Lines   []Line
}

// Viewport is the terminal area available for page content.
type Viewport struct {
	Width  int
	Height int
}

package layout

import (
	"fmt"

	"github.com/yuanying/tread/internal/epub"
)

// Navigator drives reading through a book one page at a time. It owns the
// per-chapter line and page caches and keeps the current Position in sync:
// every successful navigation lands on a page and records that page's first
// back-mapped position before returning. Reflow (Resize, SetStyle) goes the
// other way: it re-derives lines and pages and re-locates the held
// position, so the reader's logical place survives any resize.
//
// A Navigator is not safe for concurrent use.
type Navigator struct {
	book  *epub.Book
	style Style
	vp    Viewport
	fill  bool

	chapter int
	page    int
	pos     Position

	lines map[int][]Line
	pages map[int][]Page
}

// NewNavigator starts at the beginning of the book. Use JumpTo to restore a
// saved position.
func NewNavigator(book *epub.Book, style Style, vp Viewport, fill bool) *Navigator {
	n := &Navigator{
		book:  book,
		style: style,
		vp:    vp,
		fill:  fill,
		lines: make(map[int][]Line),
		pages: make(map[int][]Page),
	}
	n.syncPos()
	return n
}

// Current returns the page under the reader.
func (n *Navigator) Current() Page {
	return n.chapterPages(n.chapter)[n.page]
}

// Position returns the current logical reading position.
func (n *Navigator) Position() Position {
	return n.pos
}

// Chapter returns the current chapter index.
func (n *Navigator) Chapter() int { return n.chapter }

// PageIndex returns the current page index within the chapter.
func (n *Navigator) PageIndex() int { return n.page }

// PageCount returns the number of pages in a chapter at the current layout.
func (n *Navigator) PageCount(chapter int) int {
	return len(n.chapterPages(chapter))
}

// ChapterCount returns the number of chapters in the book.
func (n *Navigator) ChapterCount() int {
	return len(n.book.Chapters)
}

// ChapterTitle returns the display title of a chapter.
func (n *Navigator) ChapterTitle(chapter int) string {
	return n.book.Chapters[chapter].Title
}

// NextPage advances one page, crossing into the next chapter's first page at
// a chapter boundary. Returns ErrBoundary at the last page of the book.
func (n *Navigator) NextPage() error {
	if n.page+1 < len(n.chapterPages(n.chapter)) {
		n.page++
	} else if n.chapter+1 < len(n.book.Chapters) {
		n.chapter++
		n.page = 0
	} else {
		return ErrBoundary
	}
	n.syncPos()
	return nil
}

// PrevPage moves back one page, crossing into the previous chapter's last
// page at a chapter boundary. Returns ErrBoundary at the first page of the
// book.
func (n *Navigator) PrevPage() error {
	if n.page > 0 {
		n.page--
	} else if n.chapter > 0 {
		n.chapter--
		n.page = len(n.chapterPages(n.chapter)) - 1
	} else {
		return ErrBoundary
	}
	n.syncPos()
	return nil
}

// NextChapter jumps to the next chapter's first page.
func (n *Navigator) NextChapter() error {
	if n.chapter+1 >= len(n.book.Chapters) {
		return ErrBoundary
	}
	n.chapter++
	n.page = 0
	n.syncPos()
	return nil
}

// PrevChapter jumps to the previous chapter's first page.
func (n *Navigator) PrevChapter() error {
	if n.chapter == 0 {
		return ErrBoundary
	}
	n.chapter--
	n.page = 0
	n.syncPos()
	return nil
}

// FirstPage moves to the first page of the current chapter.
func (n *Navigator) FirstPage() {
	n.page = 0
	n.syncPos()
}

// LastPage moves to the last page of the current chapter.
func (n *Navigator) LastPage() {
	n.page = len(n.chapterPages(n.chapter)) - 1
	n.syncPos()
}

// JumpTo moves to the page containing pos, computing the target chapter's
// layout if it is not cached.
func (n *Navigator) JumpTo(pos Position) error {
	if pos.Chapter < 0 || pos.Chapter >= len(n.book.Chapters) {
		return fmt.Errorf("chapter %d out of range [0, %d)", pos.Chapter, len(n.book.Chapters))
	}
	n.chapter = pos.Chapter
	n.page, _ = Locate(n.chapterLines(pos.Chapter), n.vp.Height, pos)
	n.syncPos()
	return nil
}

// Resize installs new viewport dimensions, discards all derived lines and
// pages, and re-locates the held position in the new layout.
func (n *Navigator) Resize(vp Viewport) {
	if vp == n.vp {
		return
	}
	n.vp = vp
	n.reflow()
}

// SetStyle installs a new style and reflows.
func (n *Navigator) SetStyle(st Style) {
	if st == n.style {
		return
	}
	n.style = st
	n.reflow()
}

// SetFill toggles fill-to-next-chapter and reflows, since page shapes
// change.
func (n *Navigator) SetFill(fill bool) {
	if fill == n.fill {
		return
	}
	n.fill = fill
	n.reflow()
}

// reflow rebuilds derived state around the held position. The position
// itself is deliberately left untouched: restoring the previous viewport
// reproduces the exact page that contained it.
func (n *Navigator) reflow() {
	n.lines = make(map[int][]Line)
	n.pages = make(map[int][]Page)
	n.page, _ = Locate(n.chapterLines(n.pos.Chapter), n.vp.Height, n.pos)
	n.chapter = n.pos.Chapter
}

// syncPos records the landing page's first back-mapped position as the
// current position.
func (n *Navigator) syncPos() {
	pg := n.Current()
	if len(pg.Lines) == 0 {
		n.pos = Position{Chapter: n.chapter}
		return
	}
	n.pos = pg.Lines[0].Pos
}

func (n *Navigator) chapterLines(chapter int) []Line {
	if lines, ok := n.lines[chapter]; ok {
		return lines
	}
	st := n.style
	if st.Width <= 0 || (n.vp.Width > 0 && st.Width > n.vp.Width) {
		st.Width = n.vp.Width
	}
	lines := Wrap(&n.book.Chapters[chapter], st)
	n.lines[chapter] = lines
	return lines
}

func (n *Navigator) chapterPages(chapter int) []Page {
	if pages, ok := n.pages[chapter]; ok {
		return pages
	}
	pages := Paginate(n.chapterLines(chapter), chapter, n.vp.Height, n.fill)
	n.pages[chapter] = pages
	return pages
}

package layout

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/yuanying/tread/internal/epub"
)

// testBook builds a three-chapter book. With Style{Width: 10,
// ParagraphSpacing: 0} every paragraph wraps to exactly one line, so
// chapter line counts equal the paragraph counts given here.
func testBook(paraCounts ...int) *epub.Book {
	book := &epub.Book{Title: "Nav Test"}
	for ci, n := range paraCounts {
		ch := epub.Chapter{Index: ci, Title: fmt.Sprintf("Chapter %d", ci+1)}
		for p := 0; p < n; p++ {
			ch.Paragraphs = append(ch.Paragraphs, epub.Paragraph{
				Kind:  epub.KindBody,
				Words: []string{fmt.Sprintf("c%dp%d", ci, p)},
			})
		}
		book.Chapters = append(book.Chapters, ch)
	}
	return book
}

func testNav(fill bool, paraCounts ...int) *Navigator {
	return NewNavigator(
		testBook(paraCounts...),
		Style{Width: 10, ParagraphSpacing: 0},
		Viewport{Width: 40, Height: 20},
		fill,
	)
}

func TestNavigator_PageSizes(t *testing.T) {
	nav := testNav(false, 5, 50, 5)

	if got := nav.PageCount(1); got != 3 {
		t.Fatalf("chapter 1 pages = %d, want 3", got)
	}

	// Pages of 20, 20, 10 with fill off.
	if err := nav.NextChapter(); err != nil {
		t.Fatal(err)
	}
	sizes := make([]int, 0, 3)
	for {
		sizes = append(sizes, len(nav.Current().Lines))
		if nav.PageIndex() == nav.PageCount(1)-1 {
			break
		}
		if err := nav.NextPage(); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(sizes, []int{20, 20, 10}) {
		t.Errorf("page sizes = %v, want [20 20 10]", sizes)
	}
}

func TestNavigator_BoundaryErrors(t *testing.T) {
	nav := testNav(false, 5, 5)

	// At the first page of chapter 0, PrevPage is a boundary no-op.
	if err := nav.PrevPage(); !errors.Is(err, ErrBoundary) {
		t.Errorf("PrevPage at start = %v, want ErrBoundary", err)
	}
	if err := nav.PrevChapter(); !errors.Is(err, ErrBoundary) {
		t.Errorf("PrevChapter at start = %v, want ErrBoundary", err)
	}

	// Walk to the last page of the last chapter.
	for nav.NextPage() == nil {
	}
	if err := nav.NextPage(); !errors.Is(err, ErrBoundary) {
		t.Errorf("NextPage at end = %v, want ErrBoundary", err)
	}
	if err := nav.NextChapter(); !errors.Is(err, ErrBoundary) {
		t.Errorf("NextChapter at end = %v, want ErrBoundary", err)
	}
}

func TestNavigator_ChapterCrossing(t *testing.T) {
	nav := testNav(false, 25, 25)

	// Chapter 0 has pages [20, 5]. Advance to its last page, then cross.
	if err := nav.NextPage(); err != nil {
		t.Fatal(err)
	}
	if err := nav.NextPage(); err != nil {
		t.Fatal(err)
	}
	if nav.Chapter() != 1 || nav.PageIndex() != 0 {
		t.Fatalf("after crossing forward: chapter %d page %d, want 1/0", nav.Chapter(), nav.PageIndex())
	}

	// Crossing back lands on the previous chapter's last page.
	if err := nav.PrevPage(); err != nil {
		t.Fatal(err)
	}
	if nav.Chapter() != 0 || nav.PageIndex() != 1 {
		t.Fatalf("after crossing back: chapter %d page %d, want 0/1", nav.Chapter(), nav.PageIndex())
	}
}

func TestNavigator_ChapterJumps(t *testing.T) {
	nav := testNav(false, 25, 25, 25)

	if err := nav.NextChapter(); err != nil {
		t.Fatal(err)
	}
	if nav.Chapter() != 1 || nav.PageIndex() != 0 {
		t.Fatalf("NextChapter landed on %d/%d", nav.Chapter(), nav.PageIndex())
	}
	if got := nav.Position(); got != (Position{Chapter: 1}) {
		t.Errorf("position = %+v, want chapter 1 start", got)
	}

	if err := nav.PrevChapter(); err != nil {
		t.Fatal(err)
	}
	if nav.Chapter() != 0 || nav.PageIndex() != 0 {
		t.Fatalf("PrevChapter landed on %d/%d", nav.Chapter(), nav.PageIndex())
	}
}

// Every successful navigation updates the position to the landing page's
// first back-mapped line.
// FirstPage and LastPage move within the current chapter and update the
// position like any other navigation.
func TestNavigator_FirstAndLastPage(t *testing.T) {
	nav := testNav(false, 5, 50, 5)
	if err := nav.NextChapter(); err != nil {
		t.Fatal(err)
	}

	nav.LastPage()
	if nav.Chapter() != 1 || nav.PageIndex() != 2 {
		t.Fatalf("after LastPage: chapter %d page %d, want 1/2", nav.Chapter(), nav.PageIndex())
	}
	if want := (Position{Chapter: 1, Paragraph: 40}); nav.Position() != want {
		t.Errorf("position = %+v, want %+v", nav.Position(), want)
	}

	nav.FirstPage()
	if nav.Chapter() != 1 || nav.PageIndex() != 0 {
		t.Fatalf("after FirstPage: chapter %d page %d, want 1/0", nav.Chapter(), nav.PageIndex())
	}
	if want := (Position{Chapter: 1}); nav.Position() != want {
		t.Errorf("position = %+v, want %+v", nav.Position(), want)
	}
}

func TestNavigator_PositionTracksNavigation(t *testing.T) {
	nav := testNav(false, 50)

	if err := nav.NextPage(); err != nil {
		t.Fatal(err)
	}
	want := Position{Chapter: 0, Paragraph: 20}
	if got := nav.Position(); got != want {
		t.Errorf("position after NextPage = %+v, want %+v", got, want)
	}
}

func TestNavigator_JumpTo(t *testing.T) {
	nav := testNav(false, 50, 50)

	if err := nav.JumpTo(Position{Chapter: 1, Paragraph: 33}); err != nil {
		t.Fatal(err)
	}
	if nav.Chapter() != 1 || nav.PageIndex() != 1 {
		t.Fatalf("landed on %d/%d, want 1/1", nav.Chapter(), nav.PageIndex())
	}

	if err := nav.JumpTo(Position{Chapter: 9}); err == nil {
		t.Error("expected error for out-of-range chapter")
	}
}

// Changing the viewport and changing it back reproduces the exact page that
// contained the held position.
func TestNavigator_ReflowRoundTrip(t *testing.T) {
	book := &epub.Book{}
	ch := epub.Chapter{Index: 0}
	for p := 0; p < 30; p++ {
		ch.Paragraphs = append(ch.Paragraphs, epub.Paragraph{
			Kind: epub.KindBody,
			Words: []string{
				"alpha", "beta", "gamma", "delta", "epsilon",
				"zeta", "eta", "theta", "iota", "kappa",
			},
		})
	}
	book.Chapters = []epub.Chapter{ch}

	nav := NewNavigator(book, Style{ParagraphSpacing: 1}, Viewport{Width: 30, Height: 10}, false)
	for i := 0; i < 4; i++ {
		if err := nav.NextPage(); err != nil {
			t.Fatal(err)
		}
	}

	pos := nav.Position()
	pageBefore := nav.Current()
	indexBefore := nav.PageIndex()

	nav.Resize(Viewport{Width: 72, Height: 31})
	if nav.Position() != pos {
		t.Fatalf("reflow moved the position: %+v -> %+v", pos, nav.Position())
	}

	nav.Resize(Viewport{Width: 30, Height: 10})
	if nav.PageIndex() != indexBefore {
		t.Errorf("page index after round trip = %d, want %d", nav.PageIndex(), indexBefore)
	}
	if !reflect.DeepEqual(nav.Current(), pageBefore) {
		t.Error("round-trip reflow did not reproduce the original page")
	}
}

// After any resize the page under the reader still contains the held
// position.
func TestNavigator_ReflowKeepsPositionOnPage(t *testing.T) {
	nav := testNav(false, 200)
	if err := nav.JumpTo(Position{Paragraph: 105}); err != nil {
		t.Fatal(err)
	}
	pos := nav.Position()

	for _, vp := range []Viewport{{80, 50}, {20, 5}, {120, 43}} {
		nav.Resize(vp)
		pg := nav.Current()
		first := pg.Lines[0].Pos
		last := pg.Lines[len(pg.Lines)-1].Pos
		if pos.Before(first) || last.Before(pos) {
			t.Errorf("after resize to %+v the page [%+v, %+v] does not contain %+v",
				vp, first, last, pos)
		}
	}
}

func TestNavigator_FillOption(t *testing.T) {
	short := testNav(false, 5)
	if got := len(short.Current().Lines); got != 5 {
		t.Errorf("unfilled page has %d lines, want 5", got)
	}

	filled := testNav(true, 5)
	if got := len(filled.Current().Lines); got != 20 {
		t.Errorf("filled page has %d lines, want 20", got)
	}
}

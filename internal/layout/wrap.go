package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yuanying/tread/internal/epub"
)

// Wrap renders a chapter's paragraphs into display lines under the given
// style. It is a pure function of its inputs: identical chapter content and
// style always produce identical lines.
//
// Wrapping is greedy: words accumulate onto a line while they fit within
// Width display columns (measured with runewidth, so wide runes count
// double). A single word wider than Width occupies its own line unbroken;
// that is the only case where a line may exceed Width.
func Wrap(ch *epub.Chapter, st Style) []Line {
	if st.Width <= 0 {
		st.Width = 80
	}

	var lines []Line
	for i := range ch.Paragraphs {
		para := &ch.Paragraphs[i]

		if i > 0 {
			spacing := st.ParagraphSpacing
			if para.Kind == epub.KindHeading || ch.Paragraphs[i-1].Kind == epub.KindHeading {
				spacing = st.HeadingSpacing
			}
			anchor := anchorPos(ch, i)
			for s := 0; s < spacing; s++ {
				lines = append(lines, Line{Pos: anchor})
			}
		}

		switch para.Kind {
		case epub.KindBlank:
			lines = append(lines, Line{Pos: anchorPos(ch, i)})
		default:
			lines = append(lines, wrapParagraph(para, ch.Index, i, st)...)
		}
	}
	return lines
}

// wrapParagraph greedily wraps one paragraph's words. The paragraph's first
// line carries the style indent; continuation lines start at column zero.
// When the indent plus the first word would exceed the width, the first line
// is emitted without the indent. Each emitted line records the
// (paragraph, word) of its first word.
func wrapParagraph(para *epub.Paragraph, chapter, paraIdx int, st Style) []Line {
	indent := ""
	if para.Kind == epub.KindBody && st.Indent > 0 {
		indent = strings.Repeat(" ", st.Indent)
	}

	var (
		lines     []Line
		cur       strings.Builder
		curWidth  int
		firstWord int
		count     int
	)
	cur.WriteString(indent)
	curWidth = len(indent)

	flush := func(nextWord int) {
		lines = append(lines, Line{
			Text: cur.String(),
			Pos:  Position{Chapter: chapter, Paragraph: paraIdx, Word: firstWord},
		})
		cur.Reset()
		curWidth = 0
		count = 0
		firstWord = nextWord
	}

	for w, word := range para.Words {
		ww := runewidth.StringWidth(word)
		switch {
		case count == 0:
			// The width-overflow exception is reserved for overlong
			// words. A first word that fits on its own never overflows
			// because of the indent; the indent is dropped instead.
			if curWidth > 0 && curWidth+ww > st.Width && ww <= st.Width {
				cur.Reset()
				curWidth = 0
			}
			cur.WriteString(word)
			curWidth += ww
			count++
		case curWidth+1+ww <= st.Width:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + ww
			count++
		default:
			flush(w)
			cur.WriteString(word)
			curWidth = ww
			count = 1
		}
	}
	if count > 0 {
		flush(len(para.Words))
	}
	return lines
}

// anchorPos returns the position a structural (blank) line at paragraph
// index i maps to: the start of the next paragraph that has words, or
// failing that the last word before i, so the line sequence stays monotonic
// and every position stays within its paragraph's bounds.
func anchorPos(ch *epub.Chapter, i int) Position {
	for j := i; j < len(ch.Paragraphs); j++ {
		if len(ch.Paragraphs[j].Words) > 0 {
			return Position{Chapter: ch.Index, Paragraph: j}
		}
	}
	for j := i - 1; j >= 0; j-- {
		if n := len(ch.Paragraphs[j].Words); n > 0 {
			return Position{Chapter: ch.Index, Paragraph: j, Word: n - 1}
		}
	}
	return Position{Chapter: ch.Index}
}

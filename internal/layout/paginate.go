package layout

import "sort"

// Paginate slices a chapter's display lines into viewport-sized pages.
// Every chapter yields at least one page, so navigation always has a place
// to land even in an empty chapter.
//
// With fill off (the default) a chapter's final page is simply short and the
// next chapter starts fresh on its own page. With fill on, the final page is
// padded with blank lines up to the viewport height; padding lines repeat
// the last content line's position so the back-mapping stays monotonic.
func Paginate(lines []Line, chapter, height int, fill bool) []Page {
	if height <= 0 {
		height = 1
	}

	if len(lines) == 0 {
		pg := Page{Chapter: chapter}
		if fill {
			pg.Lines = blankLines(height, Position{Chapter: chapter})
		}
		return []Page{pg}
	}

	pages := make([]Page, 0, (len(lines)+height-1)/height)
	for start := 0; start < len(lines); start += height {
		end := start + height
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, Page{Chapter: chapter, Lines: lines[start:end:end]})
	}

	if fill {
		last := &pages[len(pages)-1]
		pad := last.Lines[len(last.Lines)-1].Pos
		for len(last.Lines) < height {
			last.Lines = append(last.Lines, Line{Pos: pad})
		}
	}
	return pages
}

func blankLines(n int, pos Position) []Line {
	lines := make([]Line, n)
	for i := range lines {
		lines[i].Pos = pos
	}
	return lines
}

// Locate maps a position to the page index and intra-page line offset that
// contain it: the last line whose back-mapping does not exceed pos. Because
// line positions are monotonic this is a binary search. A position before
// the first line lands on line zero.
func Locate(lines []Line, height int, pos Position) (page, offset int) {
	if height <= 0 {
		height = 1
	}
	if len(lines) == 0 {
		return 0, 0
	}
	i := sort.Search(len(lines), func(k int) bool {
		return pos.Before(lines[k].Pos)
	}) - 1
	if i < 0 {
		i = 0
	}
	return i / height, i % height
}

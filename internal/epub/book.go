// Package epub parses EPUB containers into an immutable, ordered chapter
// sequence suitable for text layout.
//
// Chapters are realized solely from the spine, in spine order, each itemref
// contributing exactly one chapter. Navigation documents (NCX, nav) are never
// consulted for chapter membership, so a resource referenced from both the
// table of contents and the spine still appears once.
package epub

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
)

// ParagraphKind classifies a paragraph for layout purposes.
type ParagraphKind int

const (
	KindBody ParagraphKind = iota
	KindHeading
	KindBlank
)

// SpanStyle is an inline style applied to a word range.
type SpanStyle int

const (
	StyleEmphasis SpanStyle = iota
	StyleStrong
	StyleUnderline
	StyleCode
)

// Span marks an inline style over the word range [Start, End).
type Span struct {
	Start int
	End   int
	Style SpanStyle
}

// Paragraph is an ordered sequence of plain-text words with optional inline
// style spans. Immutable after Open.
type Paragraph struct {
	Kind  ParagraphKind
	Words []string
	Spans []Span
}

// Text joins the paragraph's words with single spaces.
func (p Paragraph) Text() string {
	return strings.Join(p.Words, " ")
}

// Chapter is one spine item's extracted content. Index matches the chapter's
// position in the realized reading order.
type Chapter struct {
	Index      int
	Title      string
	Paragraphs []Paragraph
}

// Book is a fully parsed EPUB: metadata plus the ordered chapter sequence.
// Books are immutable after Open and safe to share across wrap and paginate
// calls without locking.
type Book struct {
	Path       string
	Title      string
	Author     string
	Language   string
	Publisher  string
	Identifier string
	Chapters   []Chapter

	coverData []byte
}

// Open parses the EPUB at path into a Book. Structural problems (unreadable
// container, malformed package document, spine entries missing from the
// manifest) abort the open. A chapter whose markup cannot be parsed is
// replaced by a placeholder paragraph and the book stays readable.
func Open(bookPath string) (*Book, error) {
	a, err := openArchive(bookPath)
	if err != nil {
		return nil, err
	}
	defer a.close()

	opfData, err := a.readFile(a.opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	doc, err := parsePackage(opfData, path.Dir(a.opfPath))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(bookPath)
	if err != nil {
		abs = bookPath
	}
	book := &Book{
		Path:       abs,
		Title:      doc.Metadata.Title,
		Author:     doc.Metadata.Author,
		Language:   doc.Metadata.Language,
		Publisher:  doc.Metadata.Publisher,
		Identifier: doc.Metadata.Identifier,
	}

	if err := book.realizeChapters(a, doc); err != nil {
		return nil, err
	}
	book.loadCover(a, doc)

	return book, nil
}

// realizeChapters walks the spine in order, resolving each linear itemref to
// its manifest resource exactly once. The spine is the single source of truth
// for chapter ordering and membership.
func (b *Book) realizeChapters(a *archive, doc *packageDoc) error {
	seen := make(map[string]bool, len(doc.Spine))

	for _, ref := range doc.Spine {
		item, ok := doc.Manifest[ref.IDRef]
		if !ok {
			return fmt.Errorf("%w: itemref %q", ErrSpine, ref.IDRef)
		}
		if !ref.Linear {
			// linear="no" marks auxiliary content (answer keys, notes).
			// It is reachable from the contents of other items, not the
			// main reading order.
			continue
		}
		if !isContentDocument(item.MediaType) {
			continue
		}
		if seen[ref.IDRef] {
			// Double-listed spine entries are archive malformation.
			// Intent is ambiguous, so warn rather than silently emit twice.
			log.Printf("warning: spine lists %q more than once, keeping first occurrence", ref.IDRef)
			continue
		}
		seen[ref.IDRef] = true

		idx := len(b.Chapters)
		ch := Chapter{Index: idx}

		data, err := a.readFile(item.Href)
		if err != nil {
			log.Printf("warning: chapter %q unreadable: %v", item.Href, err)
			ch.Paragraphs = placeholderParagraphs(item.Href)
		} else {
			paras, title, err := extractParagraphs(data)
			if err != nil {
				log.Printf("warning: chapter %q unparseable: %v", item.Href, err)
				ch.Paragraphs = placeholderParagraphs(item.Href)
			} else {
				ch.Paragraphs = paras
				ch.Title = title
			}
		}
		if ch.Title == "" {
			ch.Title = fmt.Sprintf("Chapter %d", idx+1)
		}

		b.Chapters = append(b.Chapters, ch)
	}

	if len(b.Chapters) == 0 {
		return fmt.Errorf("%w: no content documents in spine", ErrSpine)
	}
	return nil
}

// loadCover reads the declared cover image into memory so the archive handle
// can be closed. Absence of a cover is not an error.
func (b *Book) loadCover(a *archive, doc *packageDoc) {
	item, ok := findCoverItem(doc)
	if !ok {
		return
	}
	data, err := a.readFile(item.Href)
	if err != nil {
		log.Printf("warning: cover image %q unreadable: %v", item.Href, err)
		return
	}
	b.coverData = data
}

// placeholderParagraphs stands in for a chapter whose markup could not be
// parsed, keeping the book openable.
func placeholderParagraphs(href string) []Paragraph {
	msg := fmt.Sprintf("[chapter %s could not be parsed and was skipped]", href)
	return []Paragraph{{Kind: KindBody, Words: splitWords(msg)}}
}

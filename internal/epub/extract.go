package epub

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node classification for extraction. The markup tree is mapped through a
// closed set of kinds: heading, block, inline style, ignored.
var (
	headingAtoms = map[atom.Atom]bool{
		atom.H1: true, atom.H2: true, atom.H3: true,
		atom.H4: true, atom.H5: true, atom.H6: true,
	}
	blockAtoms = map[atom.Atom]bool{
		atom.P: true, atom.Div: true, atom.Blockquote: true, atom.Li: true,
	}
	ignoredAtoms = map[atom.Atom]bool{
		atom.Script: true, atom.Style: true, atom.Title: true,
		atom.Head: true, atom.Nav: true,
	}
	inlineStyles = map[atom.Atom]SpanStyle{
		atom.Em: StyleEmphasis, atom.I: StyleEmphasis,
		atom.Strong: StyleStrong, atom.B: StyleStrong,
		atom.U:    StyleUnderline,
		atom.Code: StyleCode, atom.Tt: StyleCode,
	}
)

// extractParagraphs converts one chapter's markup into an ordered paragraph
// sequence. The returned title is the first heading's text, empty when the
// chapter has none.
func extractParagraphs(markup []byte) ([]Paragraph, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, "", fmt.Errorf("parse markup: %w", err)
	}

	var paras []Paragraph
	roots := doc.Find("body").Nodes
	if len(roots) == 0 {
		roots = doc.Selection.Nodes
	}
	for _, root := range roots {
		walkBlocks(root, &paras)
	}

	title := ""
	for _, p := range paras {
		if p.Kind == KindHeading {
			title = p.Text()
			break
		}
	}
	return paras, title, nil
}

// walkBlocks descends the node tree emitting one Paragraph per leaf block
// element. A block with block-level descendants is a wrapper, not content,
// and only its children are visited; this keeps each piece of prose in
// exactly one paragraph.
func walkBlocks(n *html.Node, paras *[]Paragraph) {
	if n.Type == html.ElementNode {
		a := n.DataAtom
		if ignoredAtoms[a] {
			return
		}
		if a == atom.Hr {
			*paras = append(*paras, Paragraph{Kind: KindBlank})
			return
		}
		if (headingAtoms[a] || blockAtoms[a]) && !hasBlockChild(n) {
			kind := KindBody
			if headingAtoms[a] {
				kind = KindHeading
			}
			if p, ok := inlineParagraph(n, kind); ok {
				*paras = append(*paras, p)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkBlocks(c, paras)
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if headingAtoms[c.DataAtom] || blockAtoms[c.DataAtom] {
				return true
			}
			if hasBlockChild(c) {
				return true
			}
		}
	}
	return false
}

// inlineParagraph flattens a leaf block element into words plus style spans.
// Consecutive whitespace collapses; spans cover word ranges, never partial
// words. Returns ok=false when the element contains no words.
func inlineParagraph(n *html.Node, kind ParagraphKind) (Paragraph, bool) {
	p := Paragraph{Kind: kind}
	collectInline(n, &p, nil)
	if len(p.Words) == 0 {
		return Paragraph{}, false
	}
	return p, true
}

// collectInline walks inline content below a block element. active carries
// the styles currently in effect; when a styled subtree closes, a span is
// recorded over the words it contributed.
func collectInline(n *html.Node, p *Paragraph, active []SpanStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			start := len(p.Words)
			p.Words = append(p.Words, splitWords(c.Data)...)
			if len(active) > 0 && len(p.Words) > start {
				for _, st := range active {
					p.Spans = appendSpan(p.Spans, Span{Start: start, End: len(p.Words), Style: st})
				}
			}
		case html.ElementNode:
			if ignoredAtoms[c.DataAtom] {
				continue
			}
			if st, ok := inlineStyles[c.DataAtom]; ok {
				collectInline(c, p, append(active, st))
				continue
			}
			collectInline(c, p, active)
		}
	}
}

// appendSpan merges adjacent spans of the same style so split text nodes
// inside one element yield a single span.
func appendSpan(spans []Span, s Span) []Span {
	if n := len(spans); n > 0 {
		last := &spans[n-1]
		if last.Style == s.Style && last.End >= s.Start {
			if s.End > last.End {
				last.End = s.End
			}
			return spans
		}
	}
	return append(spans, s)
}

// splitWords tokenizes text into whitespace-separated words, collapsing
// consecutive whitespace of any kind.
func splitWords(text string) []string {
	return strings.Fields(text)
}

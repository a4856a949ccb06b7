package layout

// Style configures the line wrapper. Zero values fall back to defaults at
// wrap time; Width 0 means "use the viewport width".
type Style struct {
	// Width is the wrap width in display columns.
	Width int `json:"width"`

	// Indent is the number of leading spaces on each paragraph's first
	// line. Continuation lines are never indented.
	Indent int `json:"indent"`

	// ParagraphSpacing is the number of blank lines between paragraphs.
	ParagraphSpacing int `json:"paragraph_spacing"`

	// HeadingSpacing is the number of blank lines inserted before and
	// after a heading.
	HeadingSpacing int `json:"heading_spacing"`
}

// DefaultStyle mirrors the defaults of the reference configuration:
// one blank line between paragraphs, no indent, headings set off by a
// single blank line.
func DefaultStyle() Style {
	return Style{
		Width:            0,
		Indent:           0,
		ParagraphSpacing: 1,
		HeadingSpacing:   1,
	}
}

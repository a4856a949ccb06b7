package epub

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// findCoverItem locates the declared cover image in the manifest.
// EPUB 3 declares it with a cover-image property; EPUB 2 with a
// meta name="cover" element naming the manifest id.
func findCoverItem(doc *packageDoc) (manifestItem, bool) {
	for _, item := range doc.Manifest {
		if !isImage(item.MediaType) {
			continue
		}
		for _, prop := range item.Properties {
			if prop == "cover-image" {
				return item, true
			}
		}
	}

	if doc.Metadata.CoverID != "" {
		if item, ok := doc.Manifest[doc.Metadata.CoverID]; ok && isImage(item.MediaType) {
			return item, true
		}
	}

	return manifestItem{}, false
}

// HasCover reports whether the book declares a cover image.
func (b *Book) HasCover() bool {
	return len(b.coverData) > 0
}

// ExportCover decodes the book's cover image, scales it to fit within
// maxWidth x maxHeight (preserving aspect ratio, never upscaling), and
// writes it to outPath. The output format follows outPath's extension.
// Returns ErrNoCover when the book declares no cover.
func (b *Book) ExportCover(outPath string, maxWidth, maxHeight int) error {
	if !b.HasCover() {
		return ErrNoCover
	}

	img, err := imaging.Decode(bytes.NewReader(b.coverData))
	if err != nil {
		return fmt.Errorf("decode cover: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	if err := imaging.Save(img, outPath); err != nil {
		return fmt.Errorf("save cover: %w", err)
	}
	return nil
}

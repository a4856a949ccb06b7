package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// packageDoc is the parsed package document: metadata, the manifest keyed by
// item id, and the spine in declared reading order.
type packageDoc struct {
	Metadata metadata
	Manifest map[string]manifestItem
	Spine    []spineRef
}

type metadata struct {
	Title      string
	Author     string
	Language   string
	Publisher  string
	Identifier string
	CoverID    string // EPUB 2 cover image manifest id, from meta name="cover"
}

type manifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

type spineRef struct {
	IDRef  string
	Linear bool
}

// opfPackage mirrors the OPF XML structure.
type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	UniqueID string   `xml:"unique-identifier,attr"`
	Metadata struct {
		Title      []string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Creator    []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Language   []string `xml:"http://purl.org/dc/elements/1.1/ language"`
		Publisher  []string `xml:"http://purl.org/dc/elements/1.1/ publisher"`
		Identifier []struct {
			Value string `xml:",chardata"`
			ID    string `xml:"id,attr"`
		} `xml:"http://purl.org/dc/elements/1.1/ identifier"`
		Meta []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// parsePackage parses the package document. opfDir is the directory holding
// the OPF file; manifest hrefs are resolved relative to it.
func parsePackage(content []byte, opfDir string) (*packageDoc, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	doc := &packageDoc{Manifest: make(map[string]manifestItem, len(pkg.Manifest.Items))}
	doc.Metadata = parseMetadata(&pkg)

	for _, item := range pkg.Manifest.Items {
		if item.ID == "" || item.Href == "" {
			return nil, fmt.Errorf("%w: manifest item without id or href", ErrManifest)
		}
		mi := manifestItem{
			ID:        item.ID,
			Href:      joinPath(opfDir, item.Href),
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		doc.Manifest[item.ID] = mi
	}

	for _, ref := range pkg.Spine.ItemRefs {
		doc.Spine = append(doc.Spine, spineRef{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	if len(doc.Spine) == 0 {
		return nil, fmt.Errorf("%w: spine is empty", ErrManifest)
	}

	return doc, nil
}

func parseMetadata(pkg *opfPackage) metadata {
	md := metadata{
		Title:     "Unknown Title",
		Author:    "Unknown Author",
		Language:  "Unknown",
		Publisher: "Unknown",
	}

	m := &pkg.Metadata
	if len(m.Title) > 0 && m.Title[0] != "" {
		md.Title = m.Title[0]
	}
	if len(m.Creator) > 0 && m.Creator[0] != "" {
		md.Author = m.Creator[0]
	}
	if len(m.Language) > 0 && m.Language[0] != "" {
		md.Language = m.Language[0]
	}
	if len(m.Publisher) > 0 && m.Publisher[0] != "" {
		md.Publisher = m.Publisher[0]
	}

	// Prefer the identifier marked as the package's unique identifier.
	for _, id := range m.Identifier {
		if id.ID == pkg.UniqueID {
			md.Identifier = id.Value
			break
		}
	}
	if md.Identifier == "" && len(m.Identifier) > 0 {
		md.Identifier = m.Identifier[0].Value
	}

	for _, meta := range m.Meta {
		if meta.Name == "cover" && meta.Content != "" {
			md.CoverID = meta.Content
			break
		}
	}

	return md
}

// joinPath resolves a manifest href against the OPF directory using forward
// slashes, the EPUB path convention.
func joinPath(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return path.Clean(path.Join(base, rel))
}

// isContentDocument reports whether a media type names an XHTML content file.
func isContentDocument(mediaType string) bool {
	return strings.Contains(mediaType, "html")
}

// isImage reports whether a media type names a raster image.
func isImage(mediaType string) bool {
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

package epub

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// zipEntry is one file written into a test container.
type zipEntry struct {
	name   string
	data   string
	stored bool // write uncompressed (zip.Store)
}

// writeContainer assembles a zip file from entries and returns its path.
func writeContainer(t *testing.T, entries []zipEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	for _, e := range entries {
		var (
			fw  io.Writer
			err error
		)
		if e.stored {
			fw, err = w.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		} else {
			fw, err = w.Create(e.name)
		}
		if err != nil {
			t.Fatalf("create entry %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.data)); err != nil {
			t.Fatalf("write entry %s: %v", e.name, err)
		}
	}
	return path
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// buildEPUB writes a valid container around the given OPF and content files.
// Content file names are relative to OEBPS/.
func buildEPUB(t *testing.T, opf string, content map[string]string) string {
	t.Helper()

	entries := []zipEntry{
		{name: "mimetype", data: "application/epub+zip", stored: true},
		{name: "META-INF/container.xml", data: containerXML},
		{name: "OEBPS/content.opf", data: opf},
	}
	for name, data := range content {
		entries = append(entries, zipEntry{name: "OEBPS/" + name, data: data})
	}
	return writeContainer(t, entries)
}

func chapterXHTML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>ignored</title></head>
<body>` + body + `</body>
</html>`
}

const threeChapterOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Author</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="bookid">urn:isbn:1234567890</dc:identifier>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch3" href="ch3.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
  </spine>
</package>`

// buildThreeChapterBook is the standard fixture: three chapters in spine
// order, each with a heading and one paragraph.
func buildThreeChapterBook(t *testing.T) string {
	t.Helper()
	return buildEPUB(t, threeChapterOPF, map[string]string{
		"ch1.xhtml": chapterXHTML("<h1>One</h1><p>First chapter text.</p>"),
		"ch2.xhtml": chapterXHTML("<h1>Two</h1><p>Second chapter text.</p>"),
		"ch3.xhtml": chapterXHTML("<h1>Three</h1><p>Third chapter text.</p>"),
		"style.css": "p { margin: 0 }",
	})
}

package epub

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func coverOPF(coverMeta string) string {
	return `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Covered</dc:title>
    ` + coverMeta + `
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover-img" href="cover.png" media-type="image/png" properties="cover-image"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`
}

func TestExportCover(t *testing.T) {
	path := buildEPUB(t, coverOPF(""), map[string]string{
		"ch1.xhtml": chapterXHTML("<p>text</p>"),
		"cover.png": pngBytes(t, 40, 60),
	})

	book, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !book.HasCover() {
		t.Fatal("cover not detected via cover-image property")
	}

	out := filepath.Join(t.TempDir(), "cover.png")
	if err := book.ExportCover(out, 800, 800); err != nil {
		t.Fatalf("ExportCover failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("exported cover missing: %v", err)
	}
}

func TestExportCover_Downscales(t *testing.T) {
	path := buildEPUB(t, coverOPF(""), map[string]string{
		"ch1.xhtml": chapterXHTML("<p>text</p>"),
		"cover.png": pngBytes(t, 200, 100),
	})

	book, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "thumb.png")
	if err := book.ExportCover(out, 50, 50); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() > 50 || b.Dy() > 50 {
		t.Errorf("thumbnail is %dx%d, want within 50x50", b.Dx(), b.Dy())
	}
}

// EPUB 2 declares the cover with a meta element naming the manifest id.
func TestCover_MetaElement(t *testing.T) {
	opf := `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover-img" href="cover.png" media-type="image/png"/>
  </manifest>
  <spine><itemref idref="ch1"/></spine>
</package>`
	path := buildEPUB(t, opf, map[string]string{
		"ch1.xhtml": chapterXHTML("<p>text</p>"),
		"cover.png": pngBytes(t, 10, 10),
	})

	book, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !book.HasCover() {
		t.Error("cover not detected via meta element")
	}
}

func TestExportCover_NoCover(t *testing.T) {
	book, err := Open(buildThreeChapterBook(t))
	if err != nil {
		t.Fatal(err)
	}
	if book.HasCover() {
		t.Fatal("unexpected cover")
	}
	err = book.ExportCover(filepath.Join(t.TempDir(), "x.png"), 100, 100)
	if !errors.Is(err, ErrNoCover) {
		t.Errorf("err = %v, want ErrNoCover", err)
	}
}

package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// archive provides access to the files inside an OCF zip container.
// It is an open handle; Open reads everything it needs and closes it
// before returning, so a Book never holds a file descriptor.
type archive struct {
	zr      *zip.ReadCloser
	files   map[string]*zip.File
	opfPath string
}

// ocfContainer mirrors META-INF/container.xml.
type ocfContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// openArchive opens the zip container, validates the EPUB mimetype and
// resolves the package document path from container.xml.
func openArchive(path string) (*archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	a := &archive{
		zr:    zr,
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.files[normalizePath(f.Name)] = f
	}

	if err := a.checkMimetype(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := a.resolveOPFPath(); err != nil {
		zr.Close()
		return nil, err
	}
	return a, nil
}

func (a *archive) close() error {
	return a.zr.Close()
}

// readFile reads the contents of one file from the container.
func (a *archive) readFile(path string) ([]byte, error) {
	path = normalizePath(path)
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found in container: %s", path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// checkMimetype validates that the mimetype file exists, is stored
// uncompressed, and names the EPUB media type.
func (a *archive) checkMimetype() error {
	f, ok := a.files["mimetype"]
	if !ok {
		return fmt.Errorf("%w: mimetype file not found", ErrArchive)
	}
	if f.Method != zip.Store {
		return fmt.Errorf("%w: mimetype must not be compressed", ErrArchive)
	}
	content, err := a.readFile("mimetype")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	if string(content) != "application/epub+zip" {
		return fmt.Errorf("%w: mimetype is %q", ErrArchive, string(content))
	}
	return nil
}

// resolveOPFPath parses container.xml and records the package document path.
func (a *archive) resolveOPFPath() error {
	content, err := a.readFile("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("%w: META-INF/container.xml not found", ErrArchive)
	}

	var c ocfContainer
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("%w: container.xml: %v", ErrArchive, err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			a.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		a.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}
	return fmt.Errorf("%w: no rootfile in container.xml", ErrArchive)
}

// normalizePath strips a leading ./ so lookups match regardless of how the
// archive was built.
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "./")
}

package epub

import "errors"

// Sentinel errors for programmatic handling. Callers use errors.Is to
// distinguish a book that cannot be opened at all (ErrArchive, ErrManifest,
// ErrSpine) from conditions that only affect optional features (ErrNoCover).
var (
	// ErrArchive indicates the container cannot be opened or is not a
	// valid EPUB zip (bad mimetype, missing META-INF/container.xml).
	ErrArchive = errors.New("epub: cannot open archive")

	// ErrManifest indicates the package document is missing or malformed.
	ErrManifest = errors.New("epub: missing or malformed package document")

	// ErrSpine indicates the spine references an item that does not exist
	// in the manifest.
	ErrSpine = errors.New("epub: spine references unknown manifest item")

	// ErrNoCover indicates no cover image is declared in the package.
	ErrNoCover = errors.New("epub: no cover image declared")
)

// Package drive defines the contract with the external file store holding
// scanned certificate documents.
package drive

import "context"

// File is one entry in the remote folder listing. SourceFileID is the store's
// unique identifier and doubles as the import deduplication key.
type File struct {
	SourceFileID string
	FileName     string
	WebLink      string
}

// Lister enumerates the files in the watched folder.
type Lister interface {
	List(ctx context.Context) ([]File, error)
}

// ContentReader fetches the raw bytes of a single file.
type ContentReader interface {
	Read(ctx context.Context, sourceFileID string) ([]byte, error)
}

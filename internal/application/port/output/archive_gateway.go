package output

import (
	"context"
	"time"
)

// ArchiveGateway exports cycle history documents to external storage
// Supports both local filesystem and cloud storage (S3)
type ArchiveGateway interface {
	// SaveArchive persists an export document and returns its metadata
	SaveArchive(ctx context.Context, req SaveArchiveRequest) (*ArchiveMetadata, error)

	// ListArchives lists previously exported documents
	ListArchives(ctx context.Context) ([]*ArchiveMetadata, error)
}

// SaveArchiveRequest represents a request to save an export document
type SaveArchiveRequest struct {
	Name        string // document name, e.g. cycles-20260826.ndjson
	Content     []byte // document content
	ContentType string // MIME type (optional)
}

// ArchiveMetadata describes a stored export document
type ArchiveMetadata struct {
	Name      string    // document name
	Location  string    // full path or object URI
	SizeBytes int64     // content length
	SavedAt   time.Time // storage timestamp
}

package storage

import (
	"context"
)

// MediaStorage defines the interface for relaying a server-local file
// to durable object storage.
type MediaStorage interface {
	// UploadFile stores the file at localPath under objectKey and
	// returns the durable public URL of the object. The URL is the only
	// thing the rest of the system keeps; the object itself is owned by
	// the provider from this point on.
	UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

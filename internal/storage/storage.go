// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the local driver writes one file per object under a root directory, the
// MinIO driver works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Storage persists validated upload bytes and serves them back.
// Keys are "identifier.extension"; the store owns the bytes once written.
type Storage interface {
	// Save writes data to the store under the given key.
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Open returns a reader over the object stored under key,
	// or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

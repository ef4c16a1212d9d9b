package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores one file per object under a root directory on disk.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the root directory if absent and returns a ready store.
// Directory creation happens here, at process startup, not per request.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir %q: %w", dir, err)
	}
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes data to a temp file in the root directory and renames it into
// place, so a concurrent download never observes a partially written object.
func (l *Local) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := filepath.Join(l.dir, ".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close object %q: %w", key, err)
	}

	if err := os.Rename(tmp, filepath.Join(l.dir, key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename object %q: %w", key, err)
	}
	return nil
}

// Open returns a reader over the stored object.
func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	return f, nil
}

// PublicURL returns the browser-accessible URL for the given key,
// e.g. "https://drop.example.com/briskquietotter.png".
func (l *Local) PublicURL(key string) string {
	return l.baseURL + "/" + key
}

package storage

import (
	"context"
	"io"
)

// FileStore abstracts where uploaded bytes live. Metadata stays in
// Postgres; implementations only deal in opaque keys.
type FileStore interface {
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

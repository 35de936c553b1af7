// Package objectstore abstracts the S3-compatible artifact store used for
// raw artifact bytes and dynamically fetched parser code.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// Store is the minimal surface the engine needs from object storage.
type Store interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
}

var (
	// ErrCredentialsMissing marks a store that cannot authenticate.
	ErrCredentialsMissing = errors.New("object store credentials missing")
	// ErrObjectNotFound marks a Get for a key that does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

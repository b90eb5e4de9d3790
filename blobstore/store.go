// Package blobstore abstracts where datasets are read from and rendered
// images are written to. Implementations cover the local file system,
// memory (tests), S3 and S3-compatible object stores.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store moves named blobs between the renderer and a backing medium.
type Store interface {
	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Put writes a blob in one shot. Implementations should make the
	// write atomic: a failed Put must not leave a partial blob behind.
	Put(ctx context.Context, name string, data []byte) error
}

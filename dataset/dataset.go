// Package dataset opens heat-map input streams, transparently
// decompressing by file extension. Address dumps are usually shipped
// compressed; gzip, zstandard and lz4 are recognized.
package dataset

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ties/ipheat/blobstore"
)

// Open opens a local file and wraps it in the decompressor its
// extension calls for.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// OpenStore opens a named blob from a store, decompressed by extension.
func OpenStore(ctx context.Context, store blobstore.Store, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(blob, name)
	if err != nil {
		blob.Close()
		return nil, err
	}
	return rc, nil
}

// NewReader wraps r in the decompressor matching name's extension.
// Unrecognized extensions pass the stream through unchanged. Closing
// the returned reader closes r if r is a closer.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stacked{r: zr, close: closers(zr, r)}, nil

	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stacked{r: zr, close: func() error {
			zr.Close()
			return closeIfCloser(r)
		}}, nil

	case strings.HasSuffix(name, ".lz4"):
		return &stacked{r: lz4.NewReader(r), close: func() error {
			return closeIfCloser(r)
		}}, nil

	default:
		return &stacked{r: r, close: func() error {
			return closeIfCloser(r)
		}}, nil
	}
}

type stacked struct {
	r     io.Reader
	close func() error
}

func (s *stacked) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *stacked) Close() error { return s.close() }

func closers(first io.Closer, rest io.Reader) func() error {
	return func() error {
		err := first.Close()
		if cerr := closeIfCloser(rest); err == nil {
			err = cerr
		}
		return err
	}
}

func closeIfCloser(r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Package mmap provides read-only memory-mapped file access.
//
// Input datasets can run to gigabytes of text; mapping them avoids
// copying the whole file through userspace buffers before the line
// scanner ever sees it. On platforms without mmap support the package
// falls back to reading the file into memory.
package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

// ErrClosed is returned when accessing a mapping after Close.
var ErrClosed = errors.New("mmap: mapping is closed")

// Mapping is a read-only view of a file's contents. It owns the mapped
// region and is responsible for releasing it. Safe for concurrent
// reads; Close is idempotent.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path read-only. Empty files yield a valid
// mapping with zero-length Bytes.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the length of the mapped region.
func (m *Mapping) Size() int64 {
	return int64(len(m.data))
}

// Close releases the mapping. Callers must not touch slices obtained
// from Bytes after Close returns.
func (m *Mapping) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if m.unmap == nil || m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return m.unmap(data)
}

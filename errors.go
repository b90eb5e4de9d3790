package ipheat

import (
	"errors"
	"fmt"
)

var (
	// ErrShardsRequireAccumulate is returned when sharded ingestion is
	// configured without accumulate mode. Overwrite semantics depend on
	// input order, which shard fan-out does not preserve.
	ErrShardsRequireAccumulate = errors.New("sharded ingestion requires accumulate mode")
)

// ErrInvalidBitsPerPixel indicates an unusable granularity: the value
// must be even (so the pixel grid is a perfect square) and within
// [8, 32] (so the buffer allocation stays bounded).
type ErrInvalidBitsPerPixel struct {
	Bits int
}

func (e *ErrInvalidBitsPerPixel) Error() string {
	return fmt.Sprintf("invalid bits per pixel: %d (must be even, between %d and %d)",
		e.Bits, MinBitsPerPixel, MaxBitsPerPixel)
}

// ErrUnknownValueMode indicates an unrecognized value mode name.
type ErrUnknownValueMode struct {
	Name string
}

func (e *ErrUnknownValueMode) Error() string {
	return fmt.Sprintf("invalid value mode: %q (use 'categorical', 'raw', or 'scaled')", e.Name)
}

// ParseError is a fatal input error: a plain address or integer token
// that could not be parsed. Line numbers are 1-based.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Line  int
	Token string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid address on line %d: %q", e.Line, e.Token)
}

func (e *ParseError) Unwrap() error { return e.cause }

// ErrInvalidRange indicates a range whose first address exceeds its
// last.
type ErrInvalidRange struct {
	First, Last uint32
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range: first address %d exceeds last %d", e.First, e.Last)
}

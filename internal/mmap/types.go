package mmap

import "errors"

// AccessPattern hints how mapped memory is about to be accessed. Hints are
// forwarded to the kernel where the platform supports it and are never
// required for correctness.
type AccessPattern int

const (
	// AccessDefault restores the kernel's standard readahead.
	AccessDefault AccessPattern = iota
	// AccessSequential announces one front-to-back pass, as in a checksum
	// scan over a whole payload.
	AccessSequential
	// AccessRandom announces scattered reads, as in per-vector access.
	AccessRandom
	// AccessWillNeed asks the kernel to start paging the data in.
	AccessWillNeed
)

var (
	// ErrClosed is returned when a mapping is used after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for negative or int-overflowing sizes.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a requested slice leaves the mapping.
	ErrOutOfBounds = errors.New("mmap: slice out of bounds")
)

// Package mmap provides memory-mapped file access for zero-copy I/O.
//
// # Overview
//
// Memory mapping allows direct access to file contents without copying data
// through kernel buffers. Snapshot files open this way are usable in place:
// the payload bytes are handed to callers without a read-decode pass.
//
// # Usage
//
//	m, err := mmap.Open("vectors.smem")
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy access to file contents
//	data := m.Bytes()
//
//	// Bounds-checked view of a byte range
//	payload, _ := m.Slice(offset, size)
//
//	// Provide kernel hints for access patterns
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
// The package provides a unified API across platforms:
//
//   - Unix (Linux, macOS, BSD): Uses mmap(2) with madvise(2) for access hints
//   - Windows: Uses CreateFileMapping/MapViewOfFile (madvise is a no-op)
//
// # Thread Safety
//
// Mapping is safe for concurrent read access. The Close() method is
// idempotent and protected by atomic operations. However, callers must
// ensure no goroutines access Bytes() after Close() returns.
//
// # Anonymous Mappings
//
// MapAnon() creates read-write anonymous mappings for off-heap memory
// allocation. The mmap-backed allocator uses these to obtain page-aligned
// memory outside the Go garbage collector's control, so buffers can be
// released eagerly instead of waiting for a collection.
package mmap

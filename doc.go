// Package simdmem provides SIMD-aligned typed vector storage for Go.
//
// Simdmem guarantees that every vector it hands out lives at an address that
// is a multiple of the alignment its shape requires, across every storage
// channel and for the whole lifetime of the buffer. Shapes are described by
// the lane package: an element type from the supported catalog plus a lane
// count, e.g. 8 lanes of float32 occupy 32 bytes and require 32-byte
// alignment.
//
// # Quick Start
//
// Build a Mem for a shape, then mint buffers from it:
//
//	m, _ := simdmem.Lanes[float32](8).Build()
//
//	a, _ := m.NewArray(100)   // 100 densely packed aligned vectors
//	defer a.Free()
//	copy(a.At(0), []float32{1, 2, 3, 4, 5, 6, 7, 8})
//
//	v, _ := m.NewVector()     // growable, stays aligned across growth
//	defer v.Close()
//	v.Append([]float32{1, 2, 3, 4, 5, 6, 7, 8})
//
// # Storage Channels
//
// Four channels cover the usual storage durations:
//
//   - m.NewScalar / m.NewArray: heap buffers with owning handles and an
//     explicit Free. Scalar and array handles are distinct types, so an
//     array can never be released through a scalar path.
//   - m.NewVector: a growable container; every reallocation goes through the
//     configured allocator with the shape's alignment.
//   - m.NewPool: recycled scratch buffers for short-lived use inside a scope.
//   - m.Static: named process-lifetime buffers with no release operation.
//
// # Allocators and Budgets
//
// Allocation strategy is a value, not a hierarchy: anything implementing
// alloc.Allocator plugs in. The package ships a garbage-collected heap
// allocator (the default), an off-heap mmap allocator, and a checked wrapper
// that reports leaks, double frees, and foreign frees:
//
//	m, _ := simdmem.Lanes[float32](8).
//	    OffHeap().
//	    Checked().
//	    Budget(resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})).
//	    Build()
//	defer m.Close()
//
// Exhausting the budget fails with an error; it never produces a misaligned
// or partially initialized buffer.
//
// # Snapshots
//
// Arrays and vectors round-trip through a checksummed snapshot format with
// optional LZ4 or ZSTD compression. The 64-byte header keeps a memory-mapped
// payload aligned, so snapshot.OpenMmap serves vectors without copying:
//
//	m.SaveFile(ctx, "vectors.snap", a)
//	b, _ := m.LoadFile(ctx, "vectors.snap")
//	mapped, _ := snapshot.OpenMmap("vectors.snap")
//
// # Key Features
//
//   - Compile-time element catalog (bool, int/uint 8-64, float32/64, complex)
//   - Alignment derived from the SIMD register class (64 to 512 bit)
//   - Four storage channels behind one allocator seam
//   - Pluggable allocators: Go heap, off-heap mmap, leak-checking wrapper
//   - Hard memory budgets and snapshot IO pacing (resource.Controller)
//   - Zero-copy snapshot loads via mmap
//   - Structured logging (slog) and pluggable metrics
package simdmem

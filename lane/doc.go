// Package lane describes SIMD vector types and their alignment requirements.
//
// A vector type is an (element type, lane count) pair. For every such pair
// over the supported element catalog, Of resolves a Desc carrying the
// element width, total size, register class and required byte alignment.
// Resolution is pure and deterministic: the same pair always yields the same
// Desc, on every platform, regardless of CPU features.
//
// # Element catalog
//
// The Element constraint admits bool, the fixed-width signed and unsigned
// integers, both floats and both complex types. Platform-dependent types
// (int, uint, uintptr) are deliberately absent so descriptors mean the same
// thing everywhere. Requesting a descriptor for any other type does not
// compile:
//
//	lane.Of[float32](8) // ok: 32 bytes, 32-byte alignment
//	lane.Of[string](8)  // compile error: string does not satisfy Element
//
// # Alignment rule
//
// Let S be the total vector size in bytes. The register class is the
// smallest of 64, 128, 256 or 512 bits that holds S; vectors larger than
// 512 bits stay in the 512-bit class and span several registers. The
// required alignment is the class width, capped at the largest power of two
// dividing S:
//
//	Align(S) = min(classWidth(S), S & -S)
//
// Two consequences matter for callers. Alignment is always a power of two
// no smaller than the element size, so every aligned vector is also aligned
// for scalar access to its elements. And S is always a multiple of its own
// alignment, so packing vectors back to back in an array keeps every
// element aligned with no padding between them.
//
// # Native register width
//
// NativeClass and MaxLanes report what the running CPU prefers. They are
// the only CPU-dependent functions in the package and exist for sizing
// decisions (how many lanes to process per step); they never affect the
// alignment a Desc reports.
package lane

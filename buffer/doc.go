// Package buffer provides aligned storage for SIMD vectors across four
// ownership channels.
//
// Every buffer is backed by an allocator from the alloc package and is
// aligned to its descriptor's requirement by construction; there is no code
// path that produces a misaligned vector. The channels differ in lifetime
// and release discipline:
//
//   - Static: named, process-lifetime buffers with stable addresses and no
//     release operation. The analog of static storage duration.
//   - Pool/Scratch: recycled short-lived buffers handed out by a pool and
//     returned with Release. The analog of automatic (stack) storage for
//     hot loops, built on sync.Pool.
//   - Scalar and Array: explicitly allocated, explicitly freed buffers for
//     a single vector or a dense run of vectors. Each is its own handle
//     type with its own Free, so a Scalar can never be released through an
//     Array handle or vice versa.
//   - Vector: a growable container that re-allocates aligned as it grows,
//     through a pluggable allocator.
//
// # Release discipline
//
// Scalar.Free and Array.Free release exactly once; a second call returns
// ErrDoubleFree without touching the allocator. Vector.Close and
// Scratch.Release are idempotent. Views obtained from Lanes, At or Data
// are invalidated by Free, Close, Release and by Vector growth.
//
// # Budgets
//
// Constructors reserve the buffer size against an optional MemoryReserver
// (satisfied by *resource.Controller) before allocating and release it on
// Free or Close. When the reservation fails the constructor returns
// ErrBudgetExceeded and nothing is allocated. Scratch buffers are recycled
// rather than freed and are not charged to the reserver; static buffers
// stay reserved for the life of the process.
//
// # Concurrency
//
// Buffers are single-owner values: concurrent reads are safe, but writes,
// growth and release need external coordination, the same contract Go
// slices have. The static registry itself is safe for concurrent use.
package buffer

// Package alloc provides aligned memory allocators.
//
// # Overview
//
// Every allocator returns byte slices whose base address satisfies the
// requested power-of-two alignment and whose length and capacity equal the
// requested size exactly. Alignment is guaranteed by construction, not
// checked after the fact: the Go-heap allocator over-allocates and slices
// at the first aligned byte, and the mmap allocator hands out page-aligned
// mappings.
//
// # Choosing an allocator
//
//   - GoAllocator: garbage-collected memory. Free is a bookkeeping no-op;
//     the GC reclaims the buffer once unreferenced. The right default.
//   - MmapAllocator: anonymous mappings outside the Go heap. Free unmaps
//     eagerly, so large buffers return to the OS without waiting for a
//     collection. Requires Close to release anything still outstanding.
//   - CheckedAllocator: wraps another allocator with leak and misuse
//     tracking for tests. See below.
//
// # Ownership
//
// Allocate and Free are paired: exactly the slice returned by Allocate
// (unsliced, unshrunk) must be passed to Free, at most once. The package
// cannot make misuse fail at compile time the way a type system with
// distinct handle types can, so CheckedAllocator exists to make misuse
// loud in tests:
//
//	ca := alloc.NewCheckedAllocator(alloc.NewGoAllocator())
//	buf, _ := ca.Allocate(64, 64)
//	ca.Free(buf)
//	ca.AssertEmpty(t) // fails the test if anything leaked
//
// It assigns every allocation a serial, keeps the live set in a Roaring
// bitmap, and counts frees of memory it never handed out.
package alloc

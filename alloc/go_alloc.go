package alloc

import "unsafe"

// GoAllocator allocates aligned memory from the Go heap.
//
// It over-allocates by the requested alignment and slices the buffer at the
// first aligned byte, so the returned slice is aligned regardless of where
// the runtime placed the backing array. Free only updates counters; the
// garbage collector reclaims the memory once the caller drops the slice.
type GoAllocator struct {
	stats atomicStats
}

// NewGoAllocator creates a new Go-heap allocator.
func NewGoAllocator() *GoAllocator {
	return &GoAllocator{}
}

// Allocate returns size bytes aligned to align.
func (a *GoAllocator) Allocate(size, align int) ([]byte, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // address math is what makes the slice aligned
	offset := (uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1)

	a.stats.recordAlloc(size)
	return buf[offset : offset+uintptr(size) : offset+uintptr(size)], nil
}

// Reallocate resizes b to size bytes, keeping alignment and contents.
func (a *GoAllocator) Reallocate(size, align int, b []byte) ([]byte, error) {
	return reallocate(a, size, align, b)
}

// Free releases b. The memory itself stays with the garbage collector.
func (a *GoAllocator) Free(b []byte) {
	if b == nil {
		return
	}
	a.stats.recordFree(len(b))
}

// Stats returns a snapshot of the allocator counters.
func (a *GoAllocator) Stats() Stats {
	return a.stats.snapshot()
}

// reallocate implements the common move-or-keep logic shared by allocators.
func reallocate(a Allocator, size, align int, b []byte) ([]byte, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if size == 0 {
		a.Free(b)
		return nil, nil
	}
	if b == nil {
		return a.Allocate(size, align)
	}

	// Same size and already aligned: nothing to do. Any size change moves
	// the allocation so len(b) always matches the size Free accounts for.
	if size == len(b) && IsAligned(uintptr(unsafe.Pointer(&b[0])), align) { //nolint:gosec // alignment probe
		return b, nil
	}

	next, err := a.Allocate(size, align)
	if err != nil {
		return nil, err
	}
	copy(next, b)
	a.Free(b)
	return next, nil
}

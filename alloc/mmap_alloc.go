package alloc

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/hupe1980/simdmem/internal/mmap"
)

// MmapAllocator allocates aligned memory from anonymous mappings outside
// the Go heap.
//
// Mappings are page-aligned, which satisfies every register-class alignment
// this module hands out. Free unmaps eagerly, returning memory to the OS
// without waiting for a garbage collection; freeing memory the allocator
// does not own is counted in Stats and otherwise ignored. Close unmaps
// everything still outstanding.
type MmapAllocator struct {
	mu       sync.Mutex
	mappings map[uintptr]mmapAlloc
	closed   bool
	pageSize int
	stats    atomicStats
}

type mmapAlloc struct {
	m    *mmap.Mapping
	size int
}

// NewMmapAllocator creates a new mmap-backed allocator.
func NewMmapAllocator() *MmapAllocator {
	return &MmapAllocator{
		mappings: make(map[uintptr]mmapAlloc),
		pageSize: os.Getpagesize(),
	}
}

// Allocate returns size bytes aligned to align, backed by an anonymous mapping.
func (a *MmapAllocator) Allocate(size, align int) ([]byte, error) {
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	// Page alignment covers align <= pageSize; wider requests fall back to
	// over-mapping and slicing at the first aligned byte.
	total := size
	if align > a.pageSize {
		total = size + align
	}

	m, err := mmap.MapAnon(total)
	if err != nil {
		return nil, fmt.Errorf("alloc: anonymous mapping failed: %w", err)
	}

	raw := m.Bytes()
	addr := uintptr(unsafe.Pointer(&raw[0])) //nolint:gosec // address math drives the aligned slice
	offset := (uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1)
	data := raw[offset : offset+uintptr(size) : offset+uintptr(size)]

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		_ = m.Close()
		return nil, ErrAllocatorClosed
	}
	a.mappings[uintptr(unsafe.Pointer(&data[0]))] = mmapAlloc{m: m, size: size} //nolint:gosec // map key is the allocation identity
	a.mu.Unlock()

	a.stats.recordAlloc(size)
	return data, nil
}

// Reallocate resizes b to size bytes, keeping alignment and contents.
func (a *MmapAllocator) Reallocate(size, align int, b []byte) ([]byte, error) {
	return reallocate(a, size, align, b)
}

// Free unmaps b. Only slices returned by Allocate or Reallocate are owned;
// anything else is counted as a foreign free and left untouched.
func (a *MmapAllocator) Free(b []byte) {
	if b == nil {
		return
	}

	addr := uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // lookup by allocation identity

	a.mu.Lock()
	entry, ok := a.mappings[addr]
	if ok {
		delete(a.mappings, addr)
	}
	a.mu.Unlock()

	if !ok {
		a.stats.foreignFrees.Add(1)
		return
	}

	_ = entry.m.Close()
	a.stats.recordFree(entry.size)
}

// Close unmaps all outstanding allocations and rejects further use.
// It returns the first unmap error encountered.
func (a *MmapAllocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	var firstErr error
	for addr, entry := range a.mappings {
		if err := entry.m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.stats.recordFree(entry.size)
		delete(a.mappings, addr)
	}
	return firstErr
}

// Outstanding returns the number of live allocations.
func (a *MmapAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

// Stats returns a snapshot of the allocator counters.
func (a *MmapAllocator) Stats() Stats {
	return a.stats.snapshot()
}

package alloc

import (
	"errors"
	"math"
	"sync/atomic"
)

var (
	// ErrInvalidSize is returned when a requested size is negative or
	// would overflow.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrBadAlignment is returned when an alignment is not a positive
	// power of two.
	ErrBadAlignment = errors.New("alloc: alignment must be a positive power of two")

	// ErrAllocatorClosed is returned when allocating from a closed allocator.
	ErrAllocatorClosed = errors.New("alloc: allocator is closed")

	// ErrMisaligned is returned by CheckedAllocator when the wrapped
	// allocator hands back memory that misses the requested alignment.
	ErrMisaligned = errors.New("alloc: allocator returned misaligned memory")
)

// Allocator hands out aligned memory.
//
// Allocate returns a slice of exactly size bytes (len == cap) whose base
// address is a multiple of align. A size of zero returns a nil slice and no
// error. Reallocate resizes a previous allocation, copying contents when it
// must move; passing a nil slice is an Allocate, and a zero size is a Free.
// Free releases a slice previously returned by Allocate or Reallocate;
// freeing nil is a no-op.
type Allocator interface {
	Allocate(size, align int) ([]byte, error)
	Reallocate(size, align int, b []byte) ([]byte, error)
	Free(b []byte)
}

// DefaultAllocator is used wherever no explicit allocator is configured.
var DefaultAllocator Allocator = NewGoAllocator()

// AlignUp rounds n up to the next multiple of align.
// align must be a positive power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// IsAligned reports whether addr is a multiple of align.
// align must be a positive power of two.
func IsAligned(addr uintptr, align int) bool {
	return addr&uintptr(align-1) == 0
}

// checkRequest validates an allocation request.
func checkRequest(size, align int) error {
	if align < 1 || align&(align-1) != 0 {
		return ErrBadAlignment
	}
	if size < 0 || size > math.MaxInt-align {
		return ErrInvalidSize
	}
	return nil
}

// Stats tracks allocator usage counters.
//
// Note on semantics:
//   - Allocs/Frees: cumulative operation counts
//   - BytesInUse: bytes currently held by callers
//   - BytesPeak: high-water mark of BytesInUse
//   - ForeignFrees: frees of memory this allocator does not own
type Stats struct {
	Allocs       uint64
	Frees        uint64
	BytesInUse   uint64
	BytesPeak    uint64
	ForeignFrees uint64
}

type atomicStats struct {
	allocs       atomic.Uint64
	frees        atomic.Uint64
	bytesInUse   atomic.Int64
	bytesPeak    atomic.Int64
	foreignFrees atomic.Uint64
}

func (s *atomicStats) recordAlloc(size int) {
	s.allocs.Add(1)
	inUse := s.bytesInUse.Add(int64(size))
	for {
		peak := s.bytesPeak.Load()
		if inUse <= peak || s.bytesPeak.CompareAndSwap(peak, inUse) {
			return
		}
	}
}

func (s *atomicStats) recordFree(size int) {
	s.frees.Add(1)
	s.bytesInUse.Add(-int64(size))
}

func (s *atomicStats) snapshot() Stats {
	inUse := max(s.bytesInUse.Load(), 0)
	peak := max(s.bytesPeak.Load(), 0)
	return Stats{
		Allocs:       s.allocs.Load(),
		Frees:        s.frees.Load(),
		BytesInUse:   uint64(inUse),
		BytesPeak:    uint64(peak),
		ForeignFrees: s.foreignFrees.Load(),
	}
}

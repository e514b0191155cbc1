package alloc

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
)

// TestingT is the subset of *testing.T that AssertEmpty needs.
type TestingT interface {
	Errorf(format string, args ...any)
}

// CheckedAllocator wraps another allocator with allocation tracking.
//
// Every allocation gets a serial number; the live set is kept in a Roaring
// bitmap so leaks and release pairing can be verified cheaply even across
// many allocations. Frees of memory the wrapper never handed out are
// counted as foreign (this covers double frees, since the first free
// removes the allocation from the live set). Intended for tests:
//
//	ca := alloc.NewCheckedAllocator(alloc.DefaultAllocator)
//	// ... exercise code under test with ca ...
//	ca.AssertEmpty(t)
type CheckedAllocator struct {
	mem Allocator

	mu         sync.Mutex
	live       *roaring.Bitmap
	byAddr     map[uintptr]checkedAlloc
	bySerial   map[uint32]uintptr
	nextSerial uint32

	foreignFrees atomic.Uint64
}

type checkedAlloc struct {
	serial uint32
	size   int
	align  int
}

// Leak describes one allocation still live at reporting time.
type Leak struct {
	Serial uint32
	Addr   uintptr
	Size   int
	Align  int
}

// NewCheckedAllocator wraps mem with tracking.
func NewCheckedAllocator(mem Allocator) *CheckedAllocator {
	return &CheckedAllocator{
		mem:      mem,
		live:     roaring.New(),
		byAddr:   make(map[uintptr]checkedAlloc),
		bySerial: make(map[uint32]uintptr),
	}
}

// Allocate delegates to the wrapped allocator, verifies the result is
// aligned as requested and registers it in the live set.
func (c *CheckedAllocator) Allocate(size, align int) ([]byte, error) {
	b, err := c.mem.Allocate(size, align)
	if err != nil || b == nil {
		return b, err
	}

	if !IsAligned(uintptr(unsafe.Pointer(&b[0])), align) { //nolint:gosec // alignment probe
		c.mem.Free(b)
		return nil, ErrMisaligned
	}

	c.register(b, size, align)
	return b, nil
}

// Reallocate delegates to the wrapped allocator and moves the tracking
// entry from the old slice to the new one.
func (c *CheckedAllocator) Reallocate(size, align int, b []byte) ([]byte, error) {
	var old checkedAlloc
	var tracked bool
	if b != nil {
		old, tracked = c.unregister(b)
	}

	next, err := c.mem.Reallocate(size, align, b)
	if err != nil {
		// The old allocation is still live on failure.
		if tracked {
			c.restore(b, old)
		}
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	if !IsAligned(uintptr(unsafe.Pointer(&next[0])), align) { //nolint:gosec // alignment probe
		c.mem.Free(next)
		return nil, ErrMisaligned
	}

	c.register(next, size, align)
	return next, nil
}

// Free removes b from the live set and delegates to the wrapped allocator.
// Frees of untracked memory are counted as foreign.
func (c *CheckedAllocator) Free(b []byte) {
	if b == nil {
		return
	}
	if _, ok := c.unregister(b); !ok {
		c.foreignFrees.Add(1)
	}
	c.mem.Free(b)
}

func (c *CheckedAllocator) register(b []byte, size, align int) {
	addr := uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // tracking key

	c.mu.Lock()
	defer c.mu.Unlock()

	serial := c.nextSerial
	c.nextSerial++

	c.live.Add(serial)
	c.byAddr[addr] = checkedAlloc{serial: serial, size: size, align: align}
	c.bySerial[serial] = addr
}

func (c *CheckedAllocator) restore(b []byte, entry checkedAlloc) {
	addr := uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // tracking key

	c.mu.Lock()
	defer c.mu.Unlock()

	c.live.Add(entry.serial)
	c.byAddr[addr] = entry
	c.bySerial[entry.serial] = addr
}

func (c *CheckedAllocator) unregister(b []byte) (checkedAlloc, bool) {
	addr := uintptr(unsafe.Pointer(&b[0])) //nolint:gosec // tracking key

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byAddr[addr]
	if !ok {
		return checkedAlloc{}, false
	}
	c.live.Remove(entry.serial)
	delete(c.byAddr, addr)
	delete(c.bySerial, entry.serial)
	return entry, true
}

// Outstanding returns the number of live allocations.
func (c *CheckedAllocator) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.live.GetCardinality())
}

// OutstandingBytes returns the total size of live allocations.
func (c *CheckedAllocator) OutstandingBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, entry := range c.byAddr {
		total += int64(entry.size)
	}
	return total
}

// Live reports whether the allocation with the given serial is still live.
func (c *CheckedAllocator) Live(serial uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live.Contains(serial)
}

// ForeignFrees returns how many frees did not match a live allocation.
func (c *CheckedAllocator) ForeignFrees() uint64 {
	return c.foreignFrees.Load()
}

// Report lists all live allocations in serial order.
func (c *CheckedAllocator) Report() []Leak {
	c.mu.Lock()
	defer c.mu.Unlock()

	serials := c.live.ToArray()
	leaks := make([]Leak, 0, len(serials))
	for _, serial := range serials {
		addr := c.bySerial[serial]
		entry := c.byAddr[addr]
		leaks = append(leaks, Leak{Serial: serial, Addr: addr, Size: entry.size, Align: entry.align})
	}
	return leaks
}

// AssertEmpty fails the test if any allocation is still live or any
// foreign free was observed.
func (c *CheckedAllocator) AssertEmpty(t TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	for _, leak := range c.Report() {
		t.Errorf("leaked allocation: serial=%d addr=0x%x size=%d align=%d", leak.Serial, leak.Addr, leak.Size, leak.Align)
	}
	if n := c.ForeignFrees(); n > 0 {
		t.Errorf("foreign frees observed: %d", n)
	}
}

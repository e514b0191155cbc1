package buffer

import (
	"github.com/hupe1980/simdmem/alloc"
)

// MemoryReserver reserves buffer memory against an external budget.
// *resource.Controller implements it.
type MemoryReserver interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type config struct {
	alloc    alloc.Allocator
	reserver MemoryReserver
}

// Option configures buffer construction.
type Option func(*config)

// WithAllocator sets the allocator backing the buffer.
// If nil is passed, alloc.DefaultAllocator is used.
func WithAllocator(a alloc.Allocator) Option {
	return func(c *config) {
		if a == nil {
			a = alloc.DefaultAllocator
		}
		c.alloc = a
	}
}

// WithReserver sets the memory budget the buffer reserves against.
// Pass nil to disable budgeting.
func WithReserver(r MemoryReserver) Option {
	return func(c *config) {
		c.reserver = r
	}
}

func applyOptions(optFns []Option) config {
	c := config{
		alloc: alloc.DefaultAllocator,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&c)
		}
	}
	return c
}

// reserve charges n bytes to the budget, if one is configured.
func (c config) reserve(n int) error {
	if c.reserver == nil || n <= 0 {
		return nil
	}
	if !c.reserver.TryAcquireMemory(int64(n)) {
		return ErrBudgetExceeded
	}
	return nil
}

// release returns n bytes to the budget, if one is configured.
func (c config) release(n int) {
	if c.reserver != nil && n > 0 {
		c.reserver.ReleaseMemory(int64(n))
	}
}

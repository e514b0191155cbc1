package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/lane"
)

// PoolStats reports pool activity counters.
type PoolStats struct {
	// Gets is the total number of Get calls.
	Gets uint64
	// Puts is the total number of scratch buffers returned by Release.
	Puts uint64
	// News is the number of Get calls that had to allocate because the
	// pool was empty.
	News uint64
}

// Pool hands out scoped scratch vectors of a fixed shape, the aligned
// analog of stack temporaries in a hot loop. Get returns a vector whose
// contents are indeterminate; Release parks it for reuse.
//
// Buffers parked in the pool stay allocated, so pools are meant for
// allocators whose memory the garbage collector reclaims, such as the
// default GoAllocator. Scratch buffers are not charged to a
// MemoryReserver.
type Pool[T lane.Element] struct {
	desc  lane.Desc
	alloc alloc.Allocator
	pool  sync.Pool
	gets  atomic.Uint64
	puts  atomic.Uint64
	news  atomic.Uint64
}

// NewPool creates a pool of lanes-wide scratch vectors of T. Only
// WithAllocator applies; WithReserver is ignored.
func NewPool[T lane.Element](lanes int, optFns ...Option) (*Pool[T], error) {
	desc, err := descFor[T](lanes)
	if err != nil {
		return nil, err
	}

	cfg := applyOptions(optFns)

	return &Pool[T]{
		desc:  desc,
		alloc: cfg.alloc,
	}, nil
}

// Desc returns the descriptor shared by every scratch vector in the pool.
func (p *Pool[T]) Desc() lane.Desc {
	return p.desc
}

// Get returns an aligned scratch vector, reusing a parked one when
// available. The contents are indeterminate; callers that need zeroes must
// clear the lanes themselves. Every Get must be paired with a Release.
func (p *Pool[T]) Get() (*Scratch[T], error) {
	p.gets.Add(1)

	if sc, ok := p.pool.Get().(*Scratch[T]); ok {
		sc.released.Store(false)
		return sc, nil
	}

	mem, err := p.alloc.Allocate(p.desc.Size, p.desc.Align)
	if err != nil {
		return nil, err
	}

	p.news.Add(1)

	return &Scratch[T]{
		pool: p,
		mem:  mem,
		data: view[T](mem, p.desc.Lanes),
	}, nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Gets: p.gets.Load(),
		Puts: p.puts.Load(),
		News: p.news.Load(),
	}
}

// Scratch is a pooled scratch vector, valid from Get until Release.
type Scratch[T lane.Element] struct {
	pool     *Pool[T]
	mem      []byte
	data     []T
	released atomic.Bool
}

// Desc returns the descriptor the scratch was allocated with.
func (s *Scratch[T]) Desc() lane.Desc {
	return s.pool.desc
}

// Lanes returns the scratch elements. The slice must not be used after
// Release.
func (s *Scratch[T]) Lanes() []T {
	return s.data
}

// Addr returns the allocation's base address.
func (s *Scratch[T]) Addr() uintptr {
	return addr(s.mem)
}

// Release parks the scratch for reuse. Release is idempotent; a second
// call is a no-op.
func (s *Scratch[T]) Release() {
	if s.released.Swap(true) {
		return
	}

	s.pool.puts.Add(1)
	s.pool.pool.Put(s)
}

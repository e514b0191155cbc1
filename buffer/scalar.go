package buffer

import (
	"sync/atomic"

	"github.com/hupe1980/simdmem/lane"
)

// Scalar is a single heap-allocated vector of T, aligned to its
// descriptor's requirement. It owns its allocation: Free releases exactly
// once, and a second Free reports ErrDoubleFree.
type Scalar[T lane.Element] struct {
	desc  lane.Desc
	cfg   config
	mem   []byte
	data  []T
	freed atomic.Bool
}

// NewScalar allocates one lanes-wide vector of T, zero-initialized.
func NewScalar[T lane.Element](lanes int, optFns ...Option) (*Scalar[T], error) {
	desc, err := descFor[T](lanes)
	if err != nil {
		return nil, err
	}

	cfg := applyOptions(optFns)

	if err := cfg.reserve(desc.Size); err != nil {
		return nil, err
	}

	mem, err := cfg.alloc.Allocate(desc.Size, desc.Align)
	if err != nil {
		cfg.release(desc.Size)
		return nil, err
	}

	return &Scalar[T]{
		desc: desc,
		cfg:  cfg,
		mem:  mem,
		data: view[T](mem, desc.Lanes),
	}, nil
}

// Desc returns the descriptor the scalar was allocated with.
func (s *Scalar[T]) Desc() lane.Desc {
	return s.desc
}

// Lanes returns the vector's elements. The slice aliases the allocation
// and must not be used after Free.
func (s *Scalar[T]) Lanes() []T {
	return s.data
}

// Addr returns the allocation's base address.
func (s *Scalar[T]) Addr() uintptr {
	return addr(s.mem)
}

// Free returns the allocation to the allocator. Freeing twice reports
// ErrDoubleFree without touching the allocator again.
func (s *Scalar[T]) Free() error {
	if s.freed.Swap(true) {
		return ErrDoubleFree
	}

	s.cfg.alloc.Free(s.mem)
	s.cfg.release(s.desc.Size)
	s.mem = nil
	s.data = nil

	return nil
}

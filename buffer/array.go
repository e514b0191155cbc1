package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/simdmem/lane"
)

// Array is a dense, contiguous run of n vectors of T. The descriptor's
// Size is a multiple of its Align, so every vector in the run sits on an
// aligned boundary without padding between elements.
//
// Array is a distinct handle type from Scalar: each has its own Free and
// neither can release the other's allocation.
type Array[T lane.Element] struct {
	desc  lane.Desc
	cfg   config
	n     int
	mem   []byte
	data  []T
	freed atomic.Bool
}

// NewArray allocates n vectors of lanes elements each, zero-initialized.
// n == 0 is valid and allocates nothing.
func NewArray[T lane.Element](lanes, n int, optFns ...Option) (*Array[T], error) {
	desc, err := descFor[T](lanes)
	if err != nil {
		return nil, err
	}

	total, err := arraySize(desc.Size, n)
	if err != nil {
		return nil, err
	}

	cfg := applyOptions(optFns)

	if err := cfg.reserve(total); err != nil {
		return nil, err
	}

	mem, err := cfg.alloc.Allocate(total, desc.Align)
	if err != nil {
		cfg.release(total)
		return nil, err
	}

	return &Array[T]{
		desc: desc,
		cfg:  cfg,
		n:    n,
		mem:  mem,
		data: view[T](mem, n*desc.Lanes),
	}, nil
}

// Desc returns the descriptor shared by every vector in the array.
func (a *Array[T]) Desc() lane.Desc {
	return a.desc
}

// Len returns the number of vectors.
func (a *Array[T]) Len() int {
	return a.n
}

// Stride returns the distance in bytes between consecutive vectors. It
// equals Desc().Size and is always a multiple of Desc().Align.
func (a *Array[T]) Stride() int {
	return a.desc.Size
}

// At returns the i-th vector. It panics when i is out of range. The slice
// aliases the allocation and must not be used after Free.
func (a *Array[T]) At(i int) []T {
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("buffer: array index %d out of range [0:%d]", i, a.n))
	}

	lo, hi := i*a.desc.Lanes, (i+1)*a.desc.Lanes

	return a.data[lo:hi:hi]
}

// Data returns all vectors as one flat slice of n*lanes elements. The
// slice aliases the allocation and must not be used after Free.
func (a *Array[T]) Data() []T {
	return a.data
}

// Bytes returns the raw storage of the array, n*Stride() bytes. The slice
// aliases the allocation and must not be used after Free.
func (a *Array[T]) Bytes() []byte {
	return a.mem
}

// Addr returns the allocation's base address, 0 when the array is empty.
func (a *Array[T]) Addr() uintptr {
	return addr(a.mem)
}

// Free returns the allocation to the allocator. Freeing twice reports
// ErrDoubleFree without touching the allocator again.
func (a *Array[T]) Free() error {
	if a.freed.Swap(true) {
		return ErrDoubleFree
	}

	a.cfg.alloc.Free(a.mem)
	a.cfg.release(a.n * a.desc.Size)
	a.mem = nil
	a.data = nil

	return nil
}

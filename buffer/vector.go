package buffer

import (
	"fmt"

	"github.com/hupe1980/simdmem/lane"
)

// Vector is a growable container of lanes-wide vectors of T. Growth goes
// through the configured allocator, which re-establishes alignment on every
// move, so the base address stays aligned no matter how often the container
// grows.
type Vector[T lane.Element] struct {
	desc   lane.Desc
	cfg    config
	mem    []byte
	data   []T
	n      int
	capN   int
	closed bool
}

// NewVector creates an empty container for lanes-wide vectors of T. No
// memory is allocated until the first append, resize or reserve.
func NewVector[T lane.Element](lanes int, optFns ...Option) (*Vector[T], error) {
	desc, err := descFor[T](lanes)
	if err != nil {
		return nil, err
	}

	return &Vector[T]{
		desc: desc,
		cfg:  applyOptions(optFns),
	}, nil
}

// Desc returns the descriptor shared by every vector in the container.
func (v *Vector[T]) Desc() lane.Desc {
	return v.desc
}

// Len returns the number of vectors currently stored.
func (v *Vector[T]) Len() int {
	return v.n
}

// Cap returns the number of vectors the container can hold without growing.
func (v *Vector[T]) Cap() int {
	return v.capN
}

// Reserve grows the capacity to at least capN vectors. It never shrinks.
func (v *Vector[T]) Reserve(capN int) error {
	if v.closed {
		return ErrClosed
	}

	if capN < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, capN)
	}

	if capN <= v.capN {
		return nil
	}

	return v.grow(capN)
}

// Append appends a single vector. The value must be exactly lanes elements
// long or ErrLaneCountMismatch is returned.
func (v *Vector[T]) Append(vec []T) error {
	if v.closed {
		return ErrClosed
	}

	if len(vec) != v.desc.Lanes {
		return &ErrLaneCountMismatch{Want: v.desc.Lanes, Got: len(vec)}
	}

	if v.n == v.capN {
		if err := v.grow(v.n + 1); err != nil {
			return err
		}
	}

	v.data = v.data[:(v.n+1)*v.desc.Lanes]
	copy(v.data[v.n*v.desc.Lanes:], vec)
	v.n++

	return nil
}

// AppendN appends flat, which must hold a whole number of vectors.
func (v *Vector[T]) AppendN(flat []T) error {
	if v.closed {
		return ErrClosed
	}

	if len(flat)%v.desc.Lanes != 0 {
		return &ErrLaneCountMismatch{Want: v.desc.Lanes, Got: len(flat) % v.desc.Lanes}
	}

	k := len(flat) / v.desc.Lanes
	if k == 0 {
		return nil
	}

	if v.n+k > v.capN {
		if err := v.grow(v.n + k); err != nil {
			return err
		}
	}

	v.data = v.data[:(v.n+k)*v.desc.Lanes]
	copy(v.data[v.n*v.desc.Lanes:], flat)
	v.n += k

	return nil
}

// Resize sets the length to n vectors, growing capacity if needed. New
// vectors are zero-filled; shrinking keeps capacity.
func (v *Vector[T]) Resize(n int) error {
	if v.closed {
		return ErrClosed
	}

	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}

	if n > v.capN {
		if err := v.grow(n); err != nil {
			return err
		}
	}

	v.data = v.data[:n*v.desc.Lanes]

	if n > v.n {
		clear(v.data[v.n*v.desc.Lanes:])
	}

	v.n = n

	return nil
}

// At returns the i-th vector. It panics when i is out of range. The slice
// aliases the current allocation and is invalidated by growth and Close.
func (v *Vector[T]) At(i int) []T {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("buffer: vector index %d out of range [0:%d]", i, v.n))
	}

	lo, hi := i*v.desc.Lanes, (i+1)*v.desc.Lanes

	return v.data[lo:hi:hi]
}

// Data returns the stored vectors as one flat slice of Len()*lanes
// elements. The slice is invalidated by growth and Close.
func (v *Vector[T]) Data() []T {
	return v.data
}

// Bytes returns the raw storage of the stored vectors, Len()*stride bytes.
// The slice is invalidated by growth and Close.
func (v *Vector[T]) Bytes() []byte {
	if v.mem == nil {
		return nil
	}
	return v.mem[:v.n*v.desc.Size]
}

// Addr returns the backing allocation's base address, 0 while the
// container has no capacity.
func (v *Vector[T]) Addr() uintptr {
	return addr(v.mem)
}

// Reset empties the container, keeping its capacity.
func (v *Vector[T]) Reset() {
	if v.closed {
		return
	}

	v.n = 0

	if v.data != nil {
		v.data = v.data[:0]
	}
}

// Close releases the backing allocation. Close is idempotent; every other
// operation on a closed container reports ErrClosed.
func (v *Vector[T]) Close() error {
	if v.closed {
		return nil
	}

	v.closed = true
	v.cfg.alloc.Free(v.mem)
	v.cfg.release(v.capN * v.desc.Size)
	v.mem = nil
	v.data = nil
	v.n = 0
	v.capN = 0

	return nil
}

// grow reallocates the backing memory to hold at least need vectors,
// doubling the previous capacity when that is larger. On failure the
// container is left unchanged.
func (v *Vector[T]) grow(need int) error {
	newCap := 2 * v.capN
	if newCap < need {
		newCap = need
	}

	newSize, err := arraySize(v.desc.Size, newCap)
	if err != nil {
		return err
	}

	oldSize := v.capN * v.desc.Size

	if err := v.cfg.reserve(newSize - oldSize); err != nil {
		return err
	}

	mem, err := v.cfg.alloc.Reallocate(newSize, v.desc.Align, v.mem)
	if err != nil {
		v.cfg.release(newSize - oldSize)
		return err
	}

	v.mem = mem
	v.capN = newCap
	v.data = view[T](mem, newCap*v.desc.Lanes)[:v.n*v.desc.Lanes]

	return nil
}

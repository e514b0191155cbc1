package buffer

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/lane"
)

// descFor validates the lane count and resolves the descriptor.
func descFor[T lane.Element](lanes int) (lane.Desc, error) {
	if lanes < 1 {
		return lane.Desc{}, fmt.Errorf("%w: %d", lane.ErrInvalidLanes, lanes)
	}
	return lane.Of[T](lanes), nil
}

// view reinterprets an aligned byte buffer as count elements of type T.
func view[T lane.Element](mem []byte, count int) []T {
	if len(mem) == 0 || count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), count) //nolint:gosec // typed view over an aligned allocation
}

// addr returns the base address of a byte buffer, 0 when empty.
func addr(mem []byte) uintptr {
	if len(mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&mem[0])) //nolint:gosec // reported for alignment verification
}

// arraySize computes n*size, guarding against overflow.
func arraySize(size, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if size > 0 && n > math.MaxInt/size {
		return 0, fmt.Errorf("%w: %d vectors of %d bytes overflow", alloc.ErrInvalidSize, n, size)
	}
	return n * size, nil
}

package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleFree is returned when a buffer is freed twice.
	ErrDoubleFree = errors.New("buffer: already freed")

	// ErrClosed is returned when operating on a closed container.
	ErrClosed = errors.New("buffer: closed")

	// ErrBudgetExceeded is returned when the memory reserver rejects an
	// allocation.
	ErrBudgetExceeded = errors.New("buffer: memory budget exceeded")

	// ErrNegativeLength is returned when a buffer length is negative.
	ErrNegativeLength = errors.New("buffer: negative length")

	// ErrStaticRedefined is returned when a static buffer name is reused
	// with a different element type or shape.
	ErrStaticRedefined = errors.New("buffer: static buffer redefined with a different shape")
)

// ErrLaneCountMismatch is returned when a value's lane count does not match
// the buffer's descriptor.
type ErrLaneCountMismatch struct {
	Want int
	Got  int
}

func (e *ErrLaneCountMismatch) Error() string {
	return fmt.Sprintf("buffer: lane count mismatch: want %d, got %d", e.Want, e.Got)
}

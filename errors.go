package simdmem

import (
	"fmt"

	"github.com/hupe1980/simdmem/lane"
)

// ErrShapeMismatch indicates that a payload or snapshot carries a different
// vector shape than the Mem it was handed to.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrShapeMismatch struct {
	Want  lane.Desc
	Got   lane.Desc
	cause error
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("simdmem: shape mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *ErrShapeMismatch) Unwrap() error { return e.cause }

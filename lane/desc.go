package lane

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownKind is returned when a kind value is outside the catalog.
	ErrUnknownKind = errors.New("lane: unknown element kind")

	// ErrUnsupportedWidth is returned when an element width is not valid
	// for the given kind.
	ErrUnsupportedWidth = errors.New("lane: unsupported element width for kind")

	// ErrInvalidLanes is returned when a lane count is not at least 1 or
	// would overflow the vector size.
	ErrInvalidLanes = errors.New("lane: invalid lane count")
)

// Desc describes the memory layout of one vector type.
//
// Desc values are plain data: comparable, copyable and safe to use as map
// keys. Two descriptors resolved from the same (element, lanes) pair are
// always equal.
type Desc struct {
	// Kind is the element classification.
	Kind Kind
	// ElemBits is the width of one element in bits.
	ElemBits int
	// Lanes is the number of elements in the vector.
	Lanes int
	// Size is the total vector size in bytes (Lanes * ElemBits/8).
	Size int
	// Align is the required byte alignment. Always a power of two,
	// at least the element size, and Size is a multiple of it.
	Align int
	// Class is the smallest register tier holding Size bytes.
	Class Class
}

// Of resolves the descriptor for a vector of `lanes` elements of type T.
//
// Resolution is pure and deterministic. Element types outside the catalog
// are rejected at compile time by the Element constraint; a lane count
// below 1 is a programming error and panics.
func Of[T Element](lanes int) Desc {
	elemSize := SizeOf[T]()
	if lanes < 1 {
		panic("lane: lane count must be at least 1")
	}
	if lanes > math.MaxInt/elemSize {
		panic("lane: vector size overflows int")
	}
	return describe(KindOf[T](), elemSize, lanes)
}

// AlignOf returns the required byte alignment for a vector of `lanes`
// elements of type T. Shorthand for Of[T](lanes).Align.
func AlignOf[T Element](lanes int) int {
	return Of[T](lanes).Align
}

// New resolves a descriptor from runtime values, validating the
// combination. It exists for decode paths (snapshot headers) where the
// element type is data rather than a type parameter; typed code should use
// Of instead.
func New(kind Kind, elemBits, lanes int) (Desc, error) {
	if err := checkKindWidth(kind, elemBits); err != nil {
		return Desc{}, err
	}
	elemSize := elemBits / 8
	if lanes < 1 {
		return Desc{}, fmt.Errorf("%w: %d", ErrInvalidLanes, lanes)
	}
	if lanes > math.MaxInt/elemSize {
		return Desc{}, fmt.Errorf("%w: %d lanes of %d bytes overflow", ErrInvalidLanes, lanes, elemSize)
	}
	return describe(kind, elemSize, lanes), nil
}

// describe computes the descriptor. All inputs are validated by callers.
func describe(kind Kind, elemSize, lanes int) Desc {
	size := lanes * elemSize
	class := ClassFor(size)

	// The class width, capped at the largest power of two dividing size.
	// The cap keeps size a multiple of its own alignment, so arrays of
	// vectors carry the alignment through every element.
	align := size & -size
	if w := class.Width(); align > w {
		align = w
	}

	return Desc{
		Kind:     kind,
		ElemBits: elemSize * 8,
		Lanes:    lanes,
		Size:     size,
		Align:    align,
		Class:    class,
	}
}

// checkKindWidth validates that elemBits is a legal width for kind.
func checkKindWidth(kind Kind, elemBits int) error {
	switch kind {
	case KindBool:
		if elemBits == 8 {
			return nil
		}
	case KindInt, KindUint:
		switch elemBits {
		case 8, 16, 32, 64:
			return nil
		}
	case KindFloat:
		switch elemBits {
		case 32, 64:
			return nil
		}
	case KindComplex:
		switch elemBits {
		case 64, 128:
			return nil
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
	return fmt.Errorf("%w: %s/%d", ErrUnsupportedWidth, kind, elemBits)
}

// ElemSize returns the size of one element in bytes.
func (d Desc) ElemSize() int {
	return d.ElemBits / 8
}

// String returns a compact type name such as "float32x8" or "uint8x16".
func (d Desc) String() string {
	return fmt.Sprintf("%sx%d", d.elemName(), d.Lanes)
}

// elemName renders the element type name from kind and width.
func (d Desc) elemName() string {
	switch d.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("int%d", d.ElemBits)
	case KindUint:
		return fmt.Sprintf("uint%d", d.ElemBits)
	case KindFloat:
		return fmt.Sprintf("float%d", d.ElemBits)
	case KindComplex:
		return fmt.Sprintf("complex%d", d.ElemBits)
	default:
		return "unknown"
	}
}

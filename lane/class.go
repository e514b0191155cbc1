package lane

import (
	"strings"

	"github.com/hupe1980/simdmem/internal/cpufeat"
)

// Class identifies a vector register tier.
type Class uint8

const (
	// Class64 represents 64-bit general-purpose registers (no SIMD).
	Class64 Class = iota
	// Class128 represents 128-bit vector registers (SSE2, NEON).
	Class128
	// Class256 represents 256-bit vector registers (AVX2).
	Class256
	// Class512 represents 512-bit vector registers (AVX-512).
	Class512
)

// Width returns the register width in bytes.
func (c Class) Width() int {
	switch c {
	case Class64:
		return 8
	case Class128:
		return 16
	case Class256:
		return 32
	case Class512:
		return 64
	default:
		return 0
	}
}

// Bits returns the register width in bits.
func (c Class) Bits() int {
	return c.Width() * 8
}

// String returns the string representation of a Class.
func (c Class) String() string {
	switch c {
	case Class64:
		return "64bit"
	case Class128:
		return "128bit"
	case Class256:
		return "256bit"
	case Class512:
		return "512bit"
	default:
		return "unknown"
	}
}

// ParseClass parses a string into a Class value.
func ParseClass(s string) (Class, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "64bit":
		return Class64, true
	case "128bit":
		return Class128, true
	case "256bit":
		return Class256, true
	case "512bit":
		return Class512, true
	default:
		return Class64, false
	}
}

// ClassFor returns the smallest register class that holds size bytes.
// Sizes above 64 bytes stay in Class512 and span multiple registers.
func ClassFor(size int) Class {
	switch {
	case size <= 8:
		return Class64
	case size <= 16:
		return Class128
	case size <= 32:
		return Class256
	default:
		return Class512
	}
}

// NativeClass returns the register class the running CPU natively supports.
// This is the only CPU-dependent entry point; it informs lane-count
// choices but never changes the alignment a Desc reports.
func NativeClass() Class {
	return ClassFor(cpufeat.NativeWidth())
}

// MaxLanes returns how many elements of type T fit in one native register,
// at least 1.
func MaxLanes[T Element]() int {
	n := NativeClass().Width() / SizeOf[T]()
	if n < 1 {
		return 1
	}
	return n
}

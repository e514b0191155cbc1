package lane

import (
	"reflect"
	"unsafe"
)

// Element is the catalog of supported vector element types.
//
// Platform-dependent integer types (int, uint, uintptr) are excluded so
// that a descriptor resolved on one platform describes the same layout on
// every other.
type Element interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// Kind classifies the element types of the catalog.
type Kind uint8

const (
	// KindBool is the boolean element kind (one byte per lane).
	KindBool Kind = iota
	// KindInt covers the fixed-width signed integers.
	KindInt
	// KindUint covers the fixed-width unsigned integers.
	KindUint
	// KindFloat covers float32 and float64.
	KindFloat
	// KindComplex covers complex64 and complex128.
	KindComplex
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// SizeOf returns the size of one element of type T in bytes.
func SizeOf[T Element]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// KindOf returns the Kind of element type T.
//
// Named types are classified by their underlying type, so a
// `type Celsius float32` resolves to KindFloat.
func KindOf[T Element]() Kind {
	var z T
	switch reflect.TypeOf(z).Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Complex64, reflect.Complex128:
		return KindComplex
	default:
		// Unreachable: the Element constraint admits no other kinds.
		panic("lane: unsupported element type")
	}
}

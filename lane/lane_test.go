package lane

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "uint", KindUint.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "complex", KindComplex.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestSizeOf(t *testing.T) {
	assert.Equal(t, 1, SizeOf[bool]())
	assert.Equal(t, 1, SizeOf[int8]())
	assert.Equal(t, 2, SizeOf[int16]())
	assert.Equal(t, 4, SizeOf[int32]())
	assert.Equal(t, 8, SizeOf[int64]())
	assert.Equal(t, 1, SizeOf[uint8]())
	assert.Equal(t, 2, SizeOf[uint16]())
	assert.Equal(t, 4, SizeOf[uint32]())
	assert.Equal(t, 8, SizeOf[uint64]())
	assert.Equal(t, 4, SizeOf[float32]())
	assert.Equal(t, 8, SizeOf[float64]())
	assert.Equal(t, 8, SizeOf[complex64]())
	assert.Equal(t, 16, SizeOf[complex128]())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBool, KindOf[bool]())
	assert.Equal(t, KindInt, KindOf[int8]())
	assert.Equal(t, KindInt, KindOf[int64]())
	assert.Equal(t, KindUint, KindOf[uint16]())
	assert.Equal(t, KindUint, KindOf[uint64]())
	assert.Equal(t, KindFloat, KindOf[float32]())
	assert.Equal(t, KindFloat, KindOf[float64]())
	assert.Equal(t, KindComplex, KindOf[complex64]())
	assert.Equal(t, KindComplex, KindOf[complex128]())
}

func TestKindOf_NamedTypes(t *testing.T) {
	type flag bool
	type id uint32
	type sample float64

	assert.Equal(t, KindBool, KindOf[flag]())
	assert.Equal(t, KindUint, KindOf[id]())
	assert.Equal(t, KindFloat, KindOf[sample]())
}

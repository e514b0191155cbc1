package simdmem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simdmem"
)

// TestOffHeapLifecycle verifies that off-heap memory is unmapped when the
// owning Mem is closed and that buffers behave identically to heap-backed
// ones while live.
func TestOffHeapLifecycle(t *testing.T) {
	m, err := simdmem.Lanes[float32](8).OffHeap().Checked().Build()
	require.NoError(t, err)

	a, err := m.NewArray(64)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0), a.Addr()%uintptr(m.Desc().Align))

	for i := 0; i < a.Len(); i++ {
		a.At(i)[0] = float32(i)
	}
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, float32(i), a.At(i)[0])
	}

	require.NoError(t, a.Free())
	m.Checked().AssertEmpty(t)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestOffHeapClose_ReclaimsOutstanding(t *testing.T) {
	m, err := simdmem.Lanes[float32](8).OffHeap().Build()
	require.NoError(t, err)

	// Deliberately leak a buffer; Close unmaps it anyway.
	_, err = m.NewArray(16)
	require.NoError(t, err)

	require.NoError(t, m.Close())
}

func TestClose_NilReceiver(t *testing.T) {
	var m *simdmem.Mem[float32]
	assert.NoError(t, m.Close())
}

func TestHeapClose_Noop(t *testing.T) {
	m, err := simdmem.Lanes[float32](8).Build()
	require.NoError(t, err)

	a, err := m.NewArray(4)
	require.NoError(t, err)

	// Heap-backed instances hold nothing of their own; buffers stay usable
	// across Close.
	require.NoError(t, m.Close())
	a.At(0)[0] = 1.5
	assert.Equal(t, float32(1.5), a.At(0)[0])
	require.NoError(t, a.Free())
}

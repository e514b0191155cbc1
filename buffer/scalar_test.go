package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
)

func TestNewScalar(t *testing.T) {
	s, err := NewScalar[float32](8)
	require.NoError(t, err)

	assert.Equal(t, lane.Of[float32](8), s.Desc())
	assert.Equal(t, 32, s.Desc().Align)
	assert.Equal(t, uintptr(0), s.Addr()%uintptr(s.Desc().Align))

	lanes := s.Lanes()
	require.Len(t, lanes, 8)
	for i, v := range lanes {
		assert.Zero(t, v, "lane %d not zero-initialized", i)
	}

	lanes[3] = 1.5
	assert.Equal(t, float32(1.5), s.Lanes()[3])

	require.NoError(t, s.Free())
}

func TestNewScalar_InvalidLanes(t *testing.T) {
	_, err := NewScalar[float32](0)
	assert.ErrorIs(t, err, lane.ErrInvalidLanes)

	_, err = NewScalar[float32](-4)
	assert.ErrorIs(t, err, lane.ErrInvalidLanes)
}

func TestScalar_FreeTwice(t *testing.T) {
	s, err := NewScalar[int64](4)
	require.NoError(t, err)

	require.NoError(t, s.Free())
	assert.ErrorIs(t, s.Free(), ErrDoubleFree)
}

func TestScalar_CheckedLifecycle(t *testing.T) {
	mem := alloc.NewCheckedAllocator(alloc.NewGoAllocator())

	s, err := NewScalar[float32](8, WithAllocator(mem))
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Outstanding())

	require.NoError(t, s.Free())
	assert.Equal(t, 0, mem.Outstanding())

	// The failed second Free must not reach the allocator.
	assert.ErrorIs(t, s.Free(), ErrDoubleFree)
	assert.Equal(t, uint64(0), mem.ForeignFrees())

	mem.AssertEmpty(t)
}

func TestScalar_Budget(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 48})

	s, err := NewScalar[float32](8, WithReserver(ctrl))
	require.NoError(t, err)
	assert.Equal(t, int64(32), ctrl.MemoryUsage())

	// 48 - 32 leaves too little for another 32-byte vector.
	_, err = NewScalar[float32](8, WithReserver(ctrl))
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	require.NoError(t, s.Free())
	assert.Equal(t, int64(0), ctrl.MemoryUsage())

	s2, err := NewScalar[float32](8, WithReserver(ctrl))
	require.NoError(t, err)
	require.NoError(t, s2.Free())
}

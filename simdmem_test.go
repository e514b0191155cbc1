package simdmem

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simdmem/buffer"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
	"github.com/hupe1980/simdmem/snapshot"
)

func TestMem(t *testing.T) {
	t.Run("Float32x8", func(t *testing.T) {
		m, err := Lanes[float32](8).Build()
		require.NoError(t, err)

		desc := m.Desc()
		assert.Equal(t, lane.Of[float32](8), desc)
		assert.Equal(t, 32, desc.Size)
		assert.Equal(t, 32, desc.Align)

		s, err := m.NewScalar()
		require.NoError(t, err)
		assert.Equal(t, uintptr(0), s.Addr()%32)
		require.NoError(t, s.Free())

		for _, n := range []int{0, 16, 100} {
			a, err := m.NewArray(n)
			require.NoError(t, err)
			assert.Equal(t, n, a.Len())
			for i := 0; i < n; i++ {
				a.At(i)[0] = float32(i)
			}
			if n > 0 {
				assert.Equal(t, uintptr(0), a.Addr()%32)
			}
			require.NoError(t, a.Free())
		}

		v, err := m.NewVector()
		require.NoError(t, err)
		defer v.Close()
		for i := 0; i < 10; i++ {
			require.NoError(t, v.Append([]float32{float32(i), 0, 0, 0, 0, 0, 0, 0}))
			assert.Equal(t, uintptr(0), v.Addr()%32)
		}
		assert.Equal(t, 10, v.Len())
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		ctx := context.Background()

		m, err := Lanes[float32](8).Checked().Build()
		require.NoError(t, err)

		a, err := m.NewArray(100)
		require.NoError(t, err)
		for i := range a.Data() {
			a.Data()[i] = float32(i) * 0.25
		}

		var buf bytes.Buffer
		n, err := m.Save(ctx, &buf, a)
		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), n)

		b, err := m.Load(ctx, bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 100, b.Len())
		assert.Equal(t, a.Data(), b.Data())
		assert.Equal(t, uintptr(0), b.Addr()%uintptr(m.Desc().Align))

		require.NoError(t, a.Free())
		require.NoError(t, b.Free())
		m.Checked().AssertEmpty(t)
	})

	t.Run("SaveCompressed", func(t *testing.T) {
		ctx := context.Background()

		m, err := Lanes[float32](8).Compression(snapshot.CompressionZSTD).Build()
		require.NoError(t, err)

		a, err := m.NewArray(100)
		require.NoError(t, err)
		defer a.Free()

		var buf bytes.Buffer
		n, err := m.Save(ctx, &buf, a)
		require.NoError(t, err)
		assert.Less(t, n, int64(snapshot.HeaderSize+len(a.Bytes())))

		b, err := m.Load(ctx, bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		defer b.Free()
		assert.Equal(t, a.Data(), b.Data())
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		ctx := context.Background()

		m8, err := Lanes[float32](8).Build()
		require.NoError(t, err)
		m4, err := Lanes[float32](4).Build()
		require.NoError(t, err)

		a, err := m4.NewArray(2)
		require.NoError(t, err)
		defer a.Free()

		var buf bytes.Buffer
		_, err = m8.Save(ctx, &buf, a)
		var sm *ErrShapeMismatch
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, lane.Of[float32](8), sm.Want)
		assert.Equal(t, lane.Of[float32](4), sm.Got)

		// A snapshot of the wrong shape is rejected on load too.
		buf.Reset()
		_, err = m4.Save(ctx, &buf, a)
		require.NoError(t, err)

		_, err = m8.Load(ctx, bytes.NewReader(buf.Bytes()))
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, lane.Of[float32](4), sm.Got)
	})

	t.Run("Static", func(t *testing.T) {
		m, err := Lanes[float32](4).Build()
		require.NoError(t, err)

		g1, err := m.Static("mem-test-weights", 8)
		require.NoError(t, err)
		g2, err := m.Static("mem-test-weights", 8)
		require.NoError(t, err)
		assert.Same(t, g1, g2)

		_, err = m.Static("mem-test-weights", 9)
		assert.ErrorIs(t, err, buffer.ErrStaticRedefined)
	})

	t.Run("Pool", func(t *testing.T) {
		m, err := Lanes[float32](8).Build()
		require.NoError(t, err)

		p, err := m.NewPool()
		require.NoError(t, err)

		sc, err := p.Get()
		require.NoError(t, err)
		assert.Equal(t, uintptr(0), sc.Addr()%32)
		sc.Release()

		assert.Equal(t, uint64(1), p.Stats().News)
	})
}

func TestMem_Budget(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	m, err := Lanes[float32](8).Budget(ctrl).Build()
	require.NoError(t, err)

	s1, err := m.NewScalar()
	require.NoError(t, err)
	s2, err := m.NewScalar()
	require.NoError(t, err)
	assert.Equal(t, int64(64), ctrl.MemoryUsage())

	_, err = m.NewScalar()
	assert.ErrorIs(t, err, buffer.ErrBudgetExceeded)

	require.NoError(t, s1.Free())
	require.NoError(t, s2.Free())
	assert.Equal(t, int64(0), ctrl.MemoryUsage())
}

func TestMem_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}

	m, err := Lanes[float32](8).Metrics(mc).Build()
	require.NoError(t, err)

	a, err := m.NewArray(10)
	require.NoError(t, err)
	require.NoError(t, a.Free())

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.AllocateCount)
	assert.Equal(t, int64(320), stats.AllocateBytes)
	assert.Equal(t, int64(1), stats.FreeCount)
	assert.Equal(t, int64(320), stats.FreeBytes)

	// Growth goes through the reallocate path.
	v, err := m.NewVector()
	require.NoError(t, err)
	require.NoError(t, v.Reserve(4))
	require.NoError(t, v.Close())
	assert.Equal(t, int64(1), mc.GetStats().ReallocateCount)

	b, err := m.NewArray(5)
	require.NoError(t, err)
	defer b.Free()

	var buf bytes.Buffer
	_, err = m.Save(context.Background(), &buf, b)
	require.NoError(t, err)

	c, err := m.Load(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, c.Free())

	stats = mc.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(snapshot.HeaderSize+160), stats.SaveBytes)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(160), stats.LoadBytes)
	assert.Equal(t, int64(0), stats.SaveErrors)
	assert.Equal(t, int64(0), stats.LoadErrors)
}

func TestMem_LoggerWiring(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := Lanes[float32](8).Logger(logger).Build()
	require.NoError(t, err)

	s, err := m.NewScalar()
	require.NoError(t, err)
	require.NoError(t, s.Free())

	logged := out.String()
	assert.Contains(t, logged, "allocate completed")
	assert.Contains(t, logged, "free completed")
	assert.Contains(t, logged, "shape=float32x8")
}

func TestMem_InvalidLanes(t *testing.T) {
	_, err := Lanes[float32](0).Build()
	assert.ErrorIs(t, err, lane.ErrInvalidLanes)

	_, err = Lanes[float64](-3).Build()
	assert.ErrorIs(t, err, lane.ErrInvalidLanes)

	assert.Panics(t, func() {
		Lanes[float32](0).MustBuild()
	})
}

func TestMem_LoadCorrupted(t *testing.T) {
	ctx := context.Background()

	m, err := Lanes[float32](8).Build()
	require.NoError(t, err)

	a, err := m.NewArray(4)
	require.NoError(t, err)
	defer a.Free()

	var buf bytes.Buffer
	_, err = m.Save(ctx, &buf, a)
	require.NoError(t, err)

	raw := buf.Bytes()
	raw[snapshot.HeaderSize] ^= 0xFF

	_, err = m.Load(ctx, bytes.NewReader(raw))
	assert.ErrorIs(t, err, snapshot.ErrCorrupted)
}

func TestMem_AllocatorShared(t *testing.T) {
	// Buffers created directly through the buffer package with the Mem's
	// allocator land in the same instrumentation seam.
	mc := &BasicMetricsCollector{}

	m, err := Lanes[float32](8).Metrics(mc).Build()
	require.NoError(t, err)

	a, err := buffer.NewArray[float32](8, 3, buffer.WithAllocator(m.Allocator()))
	require.NoError(t, err)
	require.NoError(t, a.Free())

	assert.Equal(t, int64(1), mc.GetStats().AllocateCount)
	assert.Equal(t, int64(96), mc.GetStats().AllocateBytes)
}

func TestErrShapeMismatch_Unwrap(t *testing.T) {
	cause := errors.New("inner")
	err := &ErrShapeMismatch{Want: lane.Of[float32](8), Got: lane.Of[float32](4), cause: cause}

	assert.Equal(t, "simdmem: shape mismatch: want float32x8, got float32x4", err.Error())
	assert.ErrorIs(t, err, cause)
}

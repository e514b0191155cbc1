package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/buffer"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
)

func payloadAddr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// makeFloat32Payload fills an aligned array with a recognizable ramp and
// returns its descriptor, raw bytes and typed contents.
func makeFloat32Payload(t *testing.T, lanes, n int) (lane.Desc, []byte, []float32) {
	t.Helper()

	a, err := buffer.NewArray[float32](lanes, n)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Free() })

	data := a.Data()
	for i := range data {
		data[i] = float32(i) * 0.5
	}

	return a.Desc(), a.Bytes(), data
}

func TestWriteRead_RoundTrip(t *testing.T) {
	desc, payload, want := makeFloat32Payload(t, 8, 10)

	var buf bytes.Buffer
	written, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+len(payload)), written)

	snap, err := Read(context.Background(), &buf)
	require.NoError(t, err)
	defer snap.Free()

	assert.Equal(t, desc, snap.Desc())
	assert.Equal(t, 10, snap.Count())
	assert.Equal(t, payload, snap.Bytes())

	got, err := View[float32](snap)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The payload comes back in aligned memory.
	assert.Equal(t, uintptr(0), payloadAddr(snap.Bytes())%uintptr(desc.Align))
}

func TestWriteRead_Compressed(t *testing.T) {
	for _, comp := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(comp.String(), func(t *testing.T) {
			desc, payload, want := makeFloat32Payload(t, 8, 100)
			for i := range want {
				want[i] = 1.5
			}

			var buf bytes.Buffer
			written, err := Write(context.Background(), &buf, desc, payload, WithCompression(comp))
			require.NoError(t, err)

			// A constant fill compresses, so the file is smaller than the
			// verbatim form and the header records the algorithm.
			assert.Less(t, written, int64(HeaderSize+len(payload)))
			assert.Equal(t, uint32(comp), binary.LittleEndian.Uint32(buf.Bytes()[20:24]))

			snap, err := Read(context.Background(), &buf)
			require.NoError(t, err)
			defer snap.Free()

			assert.Equal(t, desc, snap.Desc())
			got, err := View[float32](snap)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			assert.Equal(t, uintptr(0), payloadAddr(snap.Bytes())%uintptr(desc.Align))
		})
	}
}

func TestWrite_IncompressibleFallsBack(t *testing.T) {
	// One vector of distinct bytes cannot shrink under either codec, so
	// the payload is stored verbatim and the header says so.
	desc := lane.Of[uint8](32)
	payload := make([]byte, 32)
	for i := range payload {
		payload[i] = byte(i*131 + 17)
	}

	for _, comp := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(comp.String(), func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Write(context.Background(), &buf, desc, payload, WithCompression(comp))
			require.NoError(t, err)

			assert.Equal(t, uint32(CompressionNone), binary.LittleEndian.Uint32(buf.Bytes()[20:24]))
			assert.Len(t, buf.Bytes(), HeaderSize+len(payload))

			snap, err := Read(context.Background(), &buf)
			require.NoError(t, err)
			defer snap.Free()
			assert.Equal(t, payload, snap.Bytes())
		})
	}
}

func TestWrite_OddPayload(t *testing.T) {
	desc := lane.Of[float32](8)

	_, err := Write(context.Background(), &bytes.Buffer{}, desc, make([]byte, 33))
	assert.ErrorIs(t, err, ErrOddPayload)
}

func TestWrite_InvalidDesc(t *testing.T) {
	_, err := Write(context.Background(), &bytes.Buffer{}, lane.Desc{Kind: lane.Kind(99), ElemBits: 32, Lanes: 8}, nil)
	assert.ErrorIs(t, err, lane.ErrUnknownKind)

	_, err = Write(context.Background(), &bytes.Buffer{}, lane.Desc{Kind: lane.KindFloat, ElemBits: 16, Lanes: 8}, nil)
	assert.ErrorIs(t, err, lane.ErrUnsupportedWidth)
}

func TestRead_HeaderErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		var buf bytes.Buffer
		h := FileHeader{Magic: 0xDEADBEEF, Version: FormatVersion}
		_, err := h.WriteTo(&buf)
		require.NoError(t, err)

		_, err = Read(context.Background(), &buf)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("future version", func(t *testing.T) {
		var buf bytes.Buffer
		h := FileHeader{Magic: FormatMagic, Version: FormatVersion + 1}
		_, err := h.WriteTo(&buf)
		require.NoError(t, err)

		_, err = Read(context.Background(), &buf)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("flipped header byte", func(t *testing.T) {
		desc, payload, _ := makeFloat32Payload(t, 8, 4)

		var buf bytes.Buffer
		_, err := Write(context.Background(), &buf, desc, payload)
		require.NoError(t, err)

		raw := buf.Bytes()
		raw[9]++

		_, err = Read(context.Background(), bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Read(context.Background(), bytes.NewReader(make([]byte, HeaderSize-1)))
		assert.ErrorIs(t, err, ErrTruncated)
	})
}

func TestRead_CorruptPayload(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 4)

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)

	raw := buf.Bytes()
	raw[HeaderSize+5] ^= 0xFF

	_, err = Read(context.Background(), bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestRead_TruncatedPayload(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 4)

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)

	raw := buf.Bytes()[:buf.Len()-10]

	_, err = Read(context.Background(), bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestRead_CheckedAllocator(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 16)

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)

	mem := alloc.NewCheckedAllocator(alloc.NewGoAllocator())

	snap, err := Read(context.Background(), &buf, WithAllocator(mem))
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Outstanding())

	snap.Free()
	snap.Free()
	mem.AssertEmpty(t)
}

func TestReadFailure_FreesPayload(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 4)

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)

	raw := buf.Bytes()
	raw[HeaderSize] ^= 0xFF

	mem := alloc.NewCheckedAllocator(alloc.NewGoAllocator())
	_, err = Read(context.Background(), bytes.NewReader(raw), WithAllocator(mem))
	assert.ErrorIs(t, err, ErrCorrupted)
	mem.AssertEmpty(t)
}

func TestWriteRead_Empty(t *testing.T) {
	desc := lane.Of[float32](8)

	var buf bytes.Buffer
	written, err := Write(context.Background(), &buf, desc, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize), written)

	snap, err := Read(context.Background(), &buf)
	require.NoError(t, err)
	defer snap.Free()

	assert.Equal(t, 0, snap.Count())
	assert.Nil(t, snap.Bytes())

	view, err := View[float32](snap)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestView_Mismatch(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 2)

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload)
	require.NoError(t, err)

	snap, err := Read(context.Background(), &buf)
	require.NoError(t, err)
	defer snap.Free()

	_, err = View[int32](snap)
	assert.ErrorIs(t, err, ErrDescMismatch)

	_, err = View[float64](snap)
	assert.ErrorIs(t, err, ErrDescMismatch)
}

func TestWriteReadFile(t *testing.T) {
	desc, payload, want := makeFloat32Payload(t, 8, 10)
	path := filepath.Join(t.TempDir(), "vectors.snap")

	require.NoError(t, WriteFile(context.Background(), path, desc, payload))

	snap, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	defer snap.Free()

	got, err := View[float32](snap)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteRead_RateLimited(t *testing.T) {
	desc, payload, want := makeFloat32Payload(t, 8, 64)
	ctrl := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 30})

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, desc, payload, WithController(ctrl))
	require.NoError(t, err)

	snap, err := Read(context.Background(), &buf, WithController(ctrl))
	require.NoError(t, err)
	defer snap.Free()

	got, err := View[float32](snap)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWrite_ContextCanceled(t *testing.T) {
	desc, payload, _ := makeFloat32Payload(t, 8, 4)
	ctrl := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Write(ctx, &bytes.Buffer{}, desc, payload, WithController(ctrl))
	assert.Error(t, err)
}

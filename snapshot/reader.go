package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unsafe"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/internal/conv"
	"github.com/hupe1980/simdmem/internal/hash"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
)

// Snapshot is a loaded snapshot: the layout descriptor plus the payload in
// aligned, allocator-backed memory.
type Snapshot struct {
	desc  lane.Desc
	count int
	data  []byte
	alloc alloc.Allocator
}

// Desc returns the layout descriptor the snapshot was written with.
func (s *Snapshot) Desc() lane.Desc {
	return s.desc
}

// Count returns the number of vectors in the payload.
func (s *Snapshot) Count() int {
	return s.count
}

// Bytes returns the aligned payload. The slice is owned by the snapshot
// and must not be used after Free.
func (s *Snapshot) Bytes() []byte {
	return s.data
}

// Free returns the payload to the allocator it was read with. Free is
// idempotent.
func (s *Snapshot) Free() {
	if s.data == nil {
		return
	}
	s.alloc.Free(s.data)
	s.data = nil
}

// Source is any loaded snapshot payload: an in-memory Snapshot or a
// memory-mapped one.
type Source interface {
	Desc() lane.Desc
	Count() int
	Bytes() []byte
}

// View reinterprets the payload of src as elements of T, Count()*lanes
// long. It fails when T does not match the snapshot's element type. The
// slice aliases the payload.
func View[T lane.Element](src Source) ([]T, error) {
	desc := src.Desc()
	if lane.KindOf[T]() != desc.Kind || lane.SizeOf[T]()*8 != desc.ElemBits {
		return nil, fmt.Errorf("%w: snapshot holds %s", ErrDescMismatch, desc)
	}

	data := src.Bytes()
	if len(data) == 0 {
		return nil, nil
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), src.Count()*desc.Lanes), nil //nolint:gosec // typed view over the aligned payload
}

// Read reads one snapshot from r. The payload is placed in memory from the
// configured allocator, aligned to the descriptor's requirement; release
// it with Free.
func Read(ctx context.Context, r io.Reader, optFns ...Option) (*Snapshot, error) {
	cfg := applyOptions(optFns)

	in := r
	if cfg.controller != nil {
		in = resource.NewRateLimitedReader(ctx, r, cfg.controller)
	}

	var header FileHeader
	if _, err := header.ReadFrom(in); err != nil {
		return nil, err
	}

	desc, err := header.Desc()
	if err != nil {
		return nil, err
	}

	count, payloadSize, storedSize, err := headerSizes(&header, desc)
	if err != nil {
		return nil, err
	}

	comp := Compression(header.Compression)

	payload, err := cfg.alloc.Allocate(payloadSize, desc.Align)
	if err != nil {
		return nil, err
	}

	if err := readPayload(in, payload, storedSize, comp); err != nil {
		cfg.alloc.Free(payload)
		return nil, err
	}

	if hash.CRC32C(payload) != header.PayloadCRC {
		cfg.alloc.Free(payload)
		return nil, ErrCorrupted
	}

	return &Snapshot{
		desc:  desc,
		count: count,
		data:  payload,
		alloc: cfg.alloc,
	}, nil
}

// ReadFile reads the snapshot at path.
func ReadFile(ctx context.Context, path string, optFns ...Option) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(ctx, f, optFns...)
}

// headerSizes converts and cross-checks the header's size fields.
func headerSizes(header *FileHeader, desc lane.Desc) (count, payloadSize, storedSize int, err error) {
	count, err = conv.Uint64ToInt(header.Count)
	if err != nil {
		return 0, 0, 0, err
	}

	payloadSize, err = conv.Uint64ToInt(header.PayloadSize)
	if err != nil {
		return 0, 0, 0, err
	}

	storedSize, err = conv.Uint64ToInt(header.StoredSize)
	if err != nil {
		return 0, 0, 0, err
	}

	if count > math.MaxInt/desc.Size || payloadSize != count*desc.Size {
		return 0, 0, 0, fmt.Errorf("%w: %d vectors of %d bytes but %d payload bytes",
			ErrCorrupted, count, desc.Size, payloadSize)
	}

	if Compression(header.Compression) == CompressionNone && storedSize != payloadSize {
		return 0, 0, 0, fmt.Errorf("%w: uncompressed snapshot stores %d of %d bytes",
			ErrCorrupted, storedSize, payloadSize)
	}

	return count, payloadSize, storedSize, nil
}

// readPayload fills payload from in, decompressing when needed.
func readPayload(in io.Reader, payload []byte, storedSize int, comp Compression) error {
	if comp == CompressionNone {
		if _, err := io.ReadFull(in, payload); err != nil {
			return truncatedOr(err)
		}
		return nil
	}

	stored := make([]byte, storedSize)
	if _, err := io.ReadFull(in, stored); err != nil {
		return truncatedOr(err)
	}

	return decompressInto(payload, stored, comp)
}

// truncatedOr maps early EOF to ErrTruncated.
func truncatedOr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

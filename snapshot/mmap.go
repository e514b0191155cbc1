package snapshot

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/internal/conv"
	"github.com/hupe1980/simdmem/internal/hash"
	"github.com/hupe1980/simdmem/internal/mmap"
	"github.com/hupe1980/simdmem/lane"
)

// Mapped is a read-only snapshot backed by a memory-mapped file.
//
// The payload is accessed zero-copy: the 64-byte header offset inside the
// page-aligned mapping keeps the payload on a 64-byte boundary, which
// covers every catalog alignment. Vectors are lazily paged in from disk as
// they are touched.
//
// All read operations are safe for concurrent use.
type Mapped struct {
	desc    lane.Desc
	count   int
	data    []byte
	mapping *mmap.Mapping
}

// OpenMmap maps the snapshot at path for zero-copy reads. Only
// uncompressed snapshots can be mapped; ErrCompressedMmap is returned
// otherwise. The payload checksum is verified once at open.
func OpenMmap(path string) (*Mapped, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open mmap: %w", err)
	}

	mapped, err := parseMapped(m)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	return mapped, nil
}

func parseMapped(m *mmap.Mapping) (*Mapped, error) {
	if m.Size() < HeaderSize {
		return nil, ErrTruncated
	}

	var header FileHeader
	if err := header.decode(m.Bytes()[:HeaderSize]); err != nil {
		return nil, err
	}

	if Compression(header.Compression) != CompressionNone {
		return nil, ErrCompressedMmap
	}

	desc, err := header.Desc()
	if err != nil {
		return nil, err
	}

	count, err := conv.Uint64ToInt(header.Count)
	if err != nil {
		return nil, err
	}

	payloadSize, err := conv.Uint64ToInt(header.PayloadSize)
	if err != nil {
		return nil, err
	}

	if count > math.MaxInt/desc.Size || payloadSize != count*desc.Size {
		return nil, fmt.Errorf("%w: %d vectors of %d bytes but %d payload bytes",
			ErrCorrupted, count, desc.Size, payloadSize)
	}

	payload, err := m.Slice(HeaderSize, payloadSize)
	if err != nil {
		if errors.Is(err, mmap.ErrOutOfBounds) {
			return nil, ErrTruncated
		}
		return nil, err
	}

	// The checksum pass walks the whole payload once; after it, access is
	// typically per vector.
	_ = m.Advise(mmap.AccessSequential)

	if hash.CRC32C(payload) != header.PayloadCRC {
		return nil, ErrCorrupted
	}

	_ = m.Advise(mmap.AccessRandom)

	if len(payload) > 0 {
		base := uintptr(unsafe.Pointer(&payload[0])) //nolint:gosec // alignment probe
		if !alloc.IsAligned(base, desc.Align) {
			return nil, fmt.Errorf("%w: mapped payload at %#x for %s", alloc.ErrMisaligned, base, desc)
		}
	}

	return &Mapped{
		desc:    desc,
		count:   count,
		data:    payload,
		mapping: m,
	}, nil
}

// Desc returns the layout descriptor the snapshot was written with.
func (m *Mapped) Desc() lane.Desc {
	return m.desc
}

// Count returns the number of vectors in the payload.
func (m *Mapped) Count() int {
	return m.count
}

// Bytes returns the mapped payload. The slice aliases the mapping and is
// invalid after Close; do not modify.
func (m *Mapped) Bytes() []byte {
	return m.data
}

// Vector returns the raw bytes of the i-th vector. It panics when i is out
// of range.
func (m *Mapped) Vector(i int) []byte {
	if i < 0 || i >= m.count {
		panic(fmt.Sprintf("snapshot: vector index %d out of range [0:%d]", i, m.count))
	}

	lo, hi := i*m.desc.Size, (i+1)*m.desc.Size

	return m.data[lo:hi:hi]
}

// Addr returns the payload's base address, 0 when the snapshot is empty.
func (m *Mapped) Addr() uintptr {
	if len(m.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.data[0])) //nolint:gosec // reported for alignment verification
}

// Close unmaps the file. Views obtained from Bytes, Vector or View are
// invalid afterwards.
func (m *Mapped) Close() error {
	m.data = nil
	return m.mapping.Close()
}

package mmap

import (
	"os"
	"sync/atomic"
)

type mappingKind uint8

const (
	kindFile mappingKind = iota
	kindAnon
)

// Mapping is an owned memory mapping: a read-only view of a file or an
// anonymous read-write region. Close unmaps it; slices obtained from Bytes
// or Slice are invalid afterwards.
type Mapping struct {
	data   []byte
	size   int
	kind   mappingKind
	closed atomic.Bool
}

// Open maps the file at path read-only in its entirety. An empty file maps
// to an empty, closable Mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || size != int64(int(size)) {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data: data,
		size: int(size),
		kind: kindFile,
	}, nil
}

// MapAnon creates a read-write anonymous mapping of size bytes. The memory
// is zero-filled, page-aligned and lives outside the Go heap; Close returns
// it to the OS.
func MapAnon(size int) (*Mapping, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &Mapping{kind: kindAnon}, nil
	}

	data, err := mapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data: data,
		size: size,
		kind: kindAnon,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.data == nil {
		return nil
	}
	if m.kind == kindAnon {
		return unmapAnon(m.data)
	}
	return unmapFile(m.data)
}

// Bytes returns the mapped memory, nil once the mapping is closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Slice returns the mapped bytes in [offset, offset+size). The slice
// aliases the mapping and is invalid after Close.
func (m *Mapping) Slice(offset, size int) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset > m.size-size {
		return nil, ErrOutOfBounds
	}
	return m.data[offset : offset+size : offset+size], nil
}

// Advise forwards an access-pattern hint for the whole mapping.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return advise(m.data, pattern)
}

package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/simdmem/internal/conv"
	"github.com/hupe1980/simdmem/internal/hash"
	"github.com/hupe1980/simdmem/lane"
)

const (
	// FormatMagic identifies snapshot files (ASCII: "SNP0").
	FormatMagic = 0x534E5030

	// FormatVersion is the current snapshot format version.
	FormatVersion uint32 = 1

	// HeaderSize is the size of the file header in bytes. It is also the
	// payload offset: 64 bytes keep an uncompressed payload on a 64-byte
	// boundary inside the file, which OpenMmap relies on.
	HeaderSize = 64
)

var (
	// ErrInvalidMagic is returned when a file has an invalid magic number.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")

	// ErrInvalidVersion is returned when a file has an unsupported version.
	ErrInvalidVersion = errors.New("snapshot: unsupported format version")

	// ErrCorrupted is returned when a file fails checksum validation.
	ErrCorrupted = errors.New("snapshot: file corrupted (checksum mismatch)")

	// ErrTruncated is returned when a file is shorter than its header
	// claims.
	ErrTruncated = errors.New("snapshot: file truncated")

	// ErrCompressedMmap is returned when OpenMmap is called on a
	// compressed snapshot; only verbatim payloads can be mapped.
	ErrCompressedMmap = errors.New("snapshot: cannot mmap a compressed snapshot")

	// ErrDescMismatch is returned when a snapshot's descriptor does not
	// match the one the caller expects.
	ErrDescMismatch = errors.New("snapshot: descriptor mismatch")

	// ErrOddPayload is returned when a payload length is not a whole
	// number of vectors.
	ErrOddPayload = errors.New("snapshot: payload is not a whole number of vectors")
)

// FileHeader is the 64-byte header at the start of snapshot files.
//
// All multi-byte fields are little-endian.
type FileHeader struct {
	Magic       uint32  // 0x534E5030 ("SNP0")
	Version     uint32  // Format version (currently 1)
	Kind        uint32  // Element kind (lane.Kind)
	ElemBits    uint32  // Element width in bits
	Lanes       uint32  // Lanes per vector
	Compression uint32  // Payload compression (Compression)
	Count       uint64  // Number of vectors
	PayloadSize uint64  // Uncompressed payload bytes (Count * vector size)
	StoredSize  uint64  // Payload bytes on disk after the header
	PayloadCRC  uint32  // CRC32-C of the uncompressed payload
	Checksum    uint32  // CRC32-C of the preceding 52 header bytes
	Reserved    [8]byte // Padding to 64 bytes
}

// Validate checks magic and version.
func (h *FileHeader) Validate() error {
	if h.Magic != FormatMagic {
		return ErrInvalidMagic
	}
	if h.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	return nil
}

// Desc resolves the layout descriptor the header describes. Combinations
// outside the catalog are rejected.
func (h *FileHeader) Desc() (lane.Desc, error) {
	if h.Kind > math.MaxUint8 {
		return lane.Desc{}, fmt.Errorf("%w: %d", lane.ErrUnknownKind, h.Kind)
	}

	elemBits, err := conv.Uint32ToInt(h.ElemBits)
	if err != nil {
		return lane.Desc{}, err
	}

	lanes, err := conv.Uint32ToInt(h.Lanes)
	if err != nil {
		return lane.Desc{}, err
	}

	return lane.New(lane.Kind(h.Kind), elemBits, lanes)
}

// WriteTo writes the header to w, computing its checksum.
func (h *FileHeader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Kind)
	binary.LittleEndian.PutUint32(buf[12:16], h.ElemBits)
	binary.LittleEndian.PutUint32(buf[16:20], h.Lanes)
	binary.LittleEndian.PutUint32(buf[20:24], h.Compression)
	binary.LittleEndian.PutUint64(buf[24:32], h.Count)
	binary.LittleEndian.PutUint64(buf[32:40], h.PayloadSize)
	binary.LittleEndian.PutUint64(buf[40:48], h.StoredSize)
	binary.LittleEndian.PutUint32(buf[48:52], h.PayloadCRC)

	// Checksum covers everything before it; reserved bytes stay zero.
	h.Checksum = hash.CRC32C(buf[:52])
	binary.LittleEndian.PutUint32(buf[52:56], h.Checksum)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads and validates the header from r.
func (h *FileHeader) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return int64(n), ErrTruncated
		}
		return int64(n), err
	}

	return int64(n), h.decode(buf)
}

// decode parses a 64-byte header buffer.
func (h *FileHeader) decode(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrTruncated
	}

	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.Kind = binary.LittleEndian.Uint32(buf[8:12])
	h.ElemBits = binary.LittleEndian.Uint32(buf[12:16])
	h.Lanes = binary.LittleEndian.Uint32(buf[16:20])
	h.Compression = binary.LittleEndian.Uint32(buf[20:24])
	h.Count = binary.LittleEndian.Uint64(buf[24:32])
	h.PayloadSize = binary.LittleEndian.Uint64(buf[32:40])
	h.StoredSize = binary.LittleEndian.Uint64(buf[40:48])
	h.PayloadCRC = binary.LittleEndian.Uint32(buf[48:52])
	h.Checksum = binary.LittleEndian.Uint32(buf[52:56])

	if h.Checksum != hash.CRC32C(buf[:52]) {
		return ErrCorrupted
	}

	return h.Validate()
}

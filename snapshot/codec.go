package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload compression algorithm.
type Compression uint32

const (
	// CompressionNone stores the payload verbatim. Required for OpenMmap.
	CompressionNone Compression = 0
	// CompressionLZ4 is fast with a moderate ratio, good for hot data.
	CompressionLZ4 Compression = 1
	// CompressionZSTD trades speed for a better ratio, good for cold data.
	CompressionZSTD Compression = 2
)

// ErrUnknownCompression is returned when a header names a compression
// algorithm this build does not know.
var ErrUnknownCompression = errors.New("snapshot: unknown compression")

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint32(c))
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressPayload compresses payload whole with c. It returns the stored
// bytes and the compression actually used: when compression does not help
// (or LZ4 reports the data incompressible) the payload is stored verbatim
// and CompressionNone is recorded, so decoding stays unambiguous.
func compressPayload(payload []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(payload) == 0 {
		return payload, CompressionNone, nil
	}

	var compressed []byte

	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("snapshot: lz4 compress: %w", err)
		}
		compressed = dst[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		compressed = enc.EncodeAll(payload, nil)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	if len(compressed) == 0 || len(compressed) >= len(payload) {
		return payload, CompressionNone, nil
	}

	return compressed, c, nil
}

// decompressInto decompresses stored into dst, which must already have the
// exact uncompressed length. The decompressors write in place, so an
// aligned dst stays aligned.
func decompressInto(dst, stored []byte, c Compression) error {
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return fmt.Errorf("snapshot: lz4 decompress: %w", err)
		}
		if n != len(dst) {
			return ErrCorrupted
		}
		return nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(stored, dst[:0])
		if err != nil {
			return fmt.Errorf("snapshot: zstd decompress: %w", err)
		}
		if len(decoded) != len(dst) {
			return ErrCorrupted
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

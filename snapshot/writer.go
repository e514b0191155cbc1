package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/simdmem/internal/conv"
	"github.com/hupe1980/simdmem/internal/hash"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
)

// Write writes the vectors in payload to w as one snapshot. The payload
// must hold a whole number of vectors of the descriptor's size. It returns
// the number of bytes written.
func Write(ctx context.Context, w io.Writer, desc lane.Desc, payload []byte, optFns ...Option) (int64, error) {
	cfg := applyOptions(optFns)

	// Re-resolve the descriptor so the header carries a canonical catalog
	// entry even if the caller built the Desc by hand.
	canon, err := lane.New(desc.Kind, desc.ElemBits, desc.Lanes)
	if err != nil {
		return 0, err
	}

	if len(payload)%canon.Size != 0 {
		return 0, fmt.Errorf("%w: %d bytes with %d-byte vectors", ErrOddPayload, len(payload), canon.Size)
	}
	count := len(payload) / canon.Size

	stored, comp, err := compressPayload(payload, cfg.compression)
	if err != nil {
		return 0, err
	}

	header, err := buildHeader(canon, comp, count, len(payload), len(stored))
	if err != nil {
		return 0, err
	}
	header.PayloadCRC = hash.CRC32C(payload)

	out := w
	if cfg.controller != nil {
		out = resource.NewRateLimitedWriter(ctx, w, cfg.controller)
	}

	var written int64

	n, err := header.WriteTo(out)
	written += n
	if err != nil {
		return written, fmt.Errorf("snapshot: write header: %w", err)
	}

	n2, err := out.Write(stored)
	written += int64(n2)
	if err != nil {
		return written, fmt.Errorf("snapshot: write payload: %w", err)
	}

	return written, nil
}

// WriteFile writes a snapshot to path, replacing any existing file.
func WriteFile(ctx context.Context, path string, desc lane.Desc, payload []byte, optFns ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}

	if _, err := Write(ctx, f, desc, payload, optFns...); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// buildHeader assembles the header fields, with overflow-checked size casts.
func buildHeader(desc lane.Desc, comp Compression, count, payloadLen, storedLen int) (FileHeader, error) {
	elemBits, err := conv.IntToUint32(desc.ElemBits)
	if err != nil {
		return FileHeader{}, err
	}

	lanes, err := conv.IntToUint32(desc.Lanes)
	if err != nil {
		return FileHeader{}, err
	}

	countU64, err := conv.IntToUint64(count)
	if err != nil {
		return FileHeader{}, err
	}

	payloadU64, err := conv.IntToUint64(payloadLen)
	if err != nil {
		return FileHeader{}, err
	}

	storedU64, err := conv.IntToUint64(storedLen)
	if err != nil {
		return FileHeader{}, err
	}

	return FileHeader{
		Magic:       FormatMagic,
		Version:     FormatVersion,
		Kind:        uint32(desc.Kind),
		ElemBits:    elemBits,
		Lanes:       lanes,
		Compression: uint32(comp),
		Count:       countU64,
		PayloadSize: payloadU64,
		StoredSize:  storedU64,
	}, nil
}

// Package snapshot persists aligned vector buffers to disk and loads them
// back, preserving the layout descriptor.
//
// A snapshot file is a 64-byte header followed by the raw vector payload.
// The header records the element kind, width, lane count and vector count,
// so a file is self-describing: Read rejects files whose descriptor cannot
// be resolved. Payloads can be stored verbatim or compressed whole with
// LZ4 or ZSTD; both the header and the uncompressed payload carry CRC32-C
// checksums.
//
// Uncompressed snapshots can also be opened with OpenMmap for zero-copy
// access. The 64-byte header keeps the payload on a 64-byte boundary
// inside the file, and the page-aligned mapping carries that through to
// memory, so mapped payloads satisfy the same alignment guarantee as
// allocated ones.
package snapshot

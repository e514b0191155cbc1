package hash

import "hash/crc32"

// Snapshot headers and payloads are checksummed with CRC32-Castagnoli,
// which has dedicated instructions on both x86 (SSE4.2) and ARM.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

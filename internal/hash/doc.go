// Package hash provides the checksum used for snapshot integrity.
//
// CRC32-Castagnoli was chosen over CRC32-IEEE for its hardware support
// (SSE4.2 on x86, the CRC extension on ARM) and better error detection;
// it is the same polynomial iSCSI and most storage engines use. The table
// is computed once at package init.
//
//	checksum := hash.CRC32C(data)
package hash

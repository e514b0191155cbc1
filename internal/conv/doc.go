// Package conv provides bounds-checked integer conversions.
//
// Snapshot headers carry counts and sizes as fixed-width unsigned fields;
// these helpers convert between them and Go's int at the decode and encode
// boundaries, surfacing ErrOverflow instead of silently wrapping. Values
// that are provably in range by construction are cast directly instead.
package conv

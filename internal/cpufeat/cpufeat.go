package cpufeat

import (
	"os"
	"runtime"
	"strings"
)

// Register widths in bytes for each vector register tier.
const (
	// WidthScalar represents plain 64-bit general-purpose registers (no SIMD).
	WidthScalar = 8
	// Width128 represents 128-bit vector registers (SSE2, NEON).
	Width128 = 16
	// Width256 represents 256-bit vector registers (AVX2).
	Width256 = 32
	// Width512 represents 512-bit vector registers (AVX-512).
	Width512 = 64
)

// Package-level state - initialized once at package init.
// No mutex needed: Go guarantees init() runs before any other code.
var (
	// nativeWidth is the selected register width in bytes.
	nativeWidth int

	// hasOverride is true if SIMDMEM_WIDTH was set.
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasASIMD    bool // ARM64 NEON
	hasSVE2     bool // ARM64 SVE2
	hasAVX2     bool // x86-64 AVX2 + FMA
	hasAVX512F  bool // x86-64 AVX-512 Foundation
	hasAVX512BW bool // x86-64 AVX-512 Byte/Word
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	// Check for environment override
	if override := os.Getenv("SIMDMEM_WIDTH"); override != "" {
		if w, ok := ParseWidth(override); ok {
			hasOverride = true
			nativeWidth = w
			return
		}
		// Invalid override - fall through to auto-detection
	}

	nativeWidth = detectWidth()
}

// detectWidth chooses the widest register tier the current CPU supports.
func detectWidth() int {
	switch runtime.GOARCH {
	case "amd64":
		// AVX-512 requires both Foundation and BW for full-width stores
		if hasAVX512F && hasAVX512BW {
			return Width512
		}
		if hasAVX2 {
			return Width256
		}
		// SSE2 is the amd64 baseline
		return Width128
	case "arm64":
		// SVE2 vectors can be wider, but the architectural minimum and the
		// common implementation (Graviton, Apple Silicon) is 128 bits.
		if hasASIMD || hasSVE2 {
			return Width128
		}
		return WidthScalar
	default:
		return WidthScalar
	}
}

// ParseWidth parses a register width name into a byte width.
func ParseWidth(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "64bit":
		return WidthScalar, true
	case "128bit":
		return Width128, true
	case "256bit":
		return Width256, true
	case "512bit":
		return Width512, true
	default:
		return 0, false
	}
}

// NativeWidth returns the native vector register width in bytes.
func NativeWidth() int {
	return nativeWidth
}

// IsOverridden returns true if SIMDMEM_WIDTH was set.
func IsOverridden() bool {
	return hasOverride
}

// HasASIMD returns true if ARM64 NEON is available.
func HasASIMD() bool {
	return hasASIMD
}

// HasSVE2 returns true if ARM64 SVE2 is available.
func HasSVE2() bool {
	return hasSVE2
}

// HasAVX2 returns true if x86-64 AVX2+FMA is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasAVX512 returns true if x86-64 AVX-512 (F+BW) is available.
func HasAVX512() bool {
	return hasAVX512F && hasAVX512BW
}

package cpufeat

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"64bit", WidthScalar, true},
		{"128bit", Width128, true},
		{"256bit", Width256, true},
		{"512bit", Width512, true},
		{"256BIT", Width256, true},
		{" 512bit ", Width512, true},
		{"", 0, false},
		{"avx2", 0, false},
		{"1024bit", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseWidth(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNativeWidth(t *testing.T) {
	w := NativeWidth()

	switch w {
	case WidthScalar, Width128, Width256, Width512:
	default:
		t.Fatalf("unexpected native width %d", w)
	}

	if IsOverridden() {
		t.Skipf("SIMDMEM_WIDTH override active (width=%d), skipping detection checks", w)
	}

	// SSE2 is part of the amd64 baseline, so detection never falls
	// below one 128-bit register there.
	if runtime.GOARCH == "amd64" {
		assert.GreaterOrEqual(t, w, Width128)
	}
}

func TestFeatureFlagsConsistent(t *testing.T) {
	if HasAVX512() {
		assert.True(t, hasAVX512F)
		assert.True(t, hasAVX512BW)
	}
	if runtime.GOARCH != "arm64" {
		assert.False(t, HasASIMD())
		assert.False(t, HasSVE2())
	}
	if runtime.GOARCH != "amd64" {
		assert.False(t, HasAVX2())
		assert.False(t, HasAVX512())
	}
}

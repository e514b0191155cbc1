// Package cpufeat detects the native SIMD register width of the host CPU.
//
// The width drives default alignment and lane-count decisions: descriptors
// for types wider than one native register still resolve, but the native
// width is what MaxLanes and register-class selection report.
//
// Detection runs once at package init from platform-specific init functions
// (golang.org/x/sys/cpu flags). The SIMDMEM_WIDTH environment variable
// overrides detection, which is useful for testing layout decisions for a
// wider or narrower target than the build host:
//
//	SIMDMEM_WIDTH=512bit go test ./...
//
// Valid values are "64bit", "128bit", "256bit" and "512bit". Overriding to a
// width the CPU does not support is safe here: this package only informs
// memory layout, and over-alignment is harmless.
package cpufeat

// Package simdmem provides SIMD-aligned typed vector storage for Go.
//
// This file implements the fluent builder API for creating and configuring Mem instances.
// The builder is immutable - each method returns a new builder with the updated configuration.
package simdmem

import (
	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/resource"
	"github.com/hupe1980/simdmem/snapshot"
)

// Lanes creates a new builder for vectors of the given element type and lane
// count. The resulting Mem mints aligned storage for exactly that shape.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents accidental
// state sharing.
//
// Example:
//
//	m, err := simdmem.Lanes[float32](8).
//	    Budget(ctrl).
//	    Checked().
//	    Compression(snapshot.CompressionZSTD).
//	    Build()
func Lanes[T lane.Element](lanes int) Builder[T] {
	return Builder[T]{
		lanes:       lanes,
		compression: snapshot.CompressionNone,
	}
}

// Builder is an immutable fluent builder for creating Mem instances.
// Each method returns a new builder with the updated configuration.
type Builder[T lane.Element] struct {
	lanes       int
	alloc       alloc.Allocator
	offHeap     bool
	checked     bool
	budget      *resource.Controller
	compression snapshot.Compression
	logger      *Logger
	metrics     MetricsCollector
}

// Allocator sets the allocator backing every storage channel.
// Default: alloc.DefaultAllocator (Go heap, garbage collected).
func (b Builder[T]) Allocator(a alloc.Allocator) Builder[T] {
	b.alloc = a
	b.offHeap = false
	return b
}

// OffHeap places allocations outside the Go heap via anonymous mappings.
// The built Mem owns the mmap allocator; Close unmaps outstanding memory.
func (b Builder[T]) OffHeap() Builder[T] {
	b.alloc = nil
	b.offHeap = true
	return b
}

// Checked wraps the allocator in an alloc.CheckedAllocator for leak and
// release-path verification. Retrieve it via Mem.Checked.
func (b Builder[T]) Checked() Builder[T] {
	b.checked = true
	return b
}

// Budget enforces a hard memory limit and IO pacing via a resource.Controller.
func (b Builder[T]) Budget(rc *resource.Controller) Builder[T] {
	b.budget = rc
	return b
}

// Compression selects the compression codec for snapshot saves.
// Default: snapshot.CompressionNone.
func (b Builder[T]) Compression(c snapshot.Compression) Builder[T] {
	b.compression = c
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder[T]) Logger(l *Logger) Builder[T] {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder[T]) Metrics(mc MetricsCollector) Builder[T] {
	b.metrics = mc
	return b
}

// Build creates the Mem instance. It fails if the lane count is invalid for
// the element type.
func (b Builder[T]) Build() (*Mem[T], error) {
	var optFns []Option
	if b.offHeap {
		optFns = append(optFns, WithOffHeap())
	} else if b.alloc != nil {
		optFns = append(optFns, WithAllocator(b.alloc))
	}
	if b.checked {
		optFns = append(optFns, WithChecked())
	}
	if b.budget != nil {
		optFns = append(optFns, WithBudget(b.budget))
	}
	if b.compression != snapshot.CompressionNone {
		optFns = append(optFns, WithCompression(b.compression))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}

	return newMem[T](b.lanes, optFns...)
}

// MustBuild creates the Mem instance, panicking on error.
func (b Builder[T]) MustBuild() *Mem[T] {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

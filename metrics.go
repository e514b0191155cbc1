package simdmem

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    allocCounter   prometheus.Counter
//	    allocHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordAllocate(size int, duration time.Duration, err error) {
//	    p.allocCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordAllocate is called after each allocation.
	// size is the requested byte count, duration is the time taken,
	// err is nil if successful.
	RecordAllocate(size int, duration time.Duration, err error)

	// RecordReallocate is called after each reallocation (container growth).
	RecordReallocate(size int, duration time.Duration, err error)

	// RecordFree is called after each release back to the allocator.
	// size is the byte count returned.
	RecordFree(size int)

	// RecordSave is called after each snapshot save operation.
	// bytes is the number of bytes written, err is nil if successful.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after each snapshot load operation.
	// bytes is the payload size loaded, err is nil if successful.
	RecordLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordReallocate(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFree(int)                             {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)     {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocateCount      atomic.Int64
	AllocateErrors     atomic.Int64
	AllocateBytes      atomic.Int64
	AllocateTotalNanos atomic.Int64
	ReallocateCount    atomic.Int64
	ReallocateErrors   atomic.Int64
	FreeCount          atomic.Int64
	FreeBytes          atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveBytes          atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(size int, duration time.Duration, err error) {
	b.AllocateCount.Add(1)
	b.AllocateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocateBytes.Add(int64(size))
}

// RecordReallocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReallocate(size int, duration time.Duration, err error) {
	b.ReallocateCount.Add(1)
	if err != nil {
		b.ReallocateErrors.Add(1)
	}
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(size int) {
	b.FreeCount.Add(1)
	b.FreeBytes.Add(int64(size))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocateCount:    b.AllocateCount.Load(),
		AllocateErrors:   b.AllocateErrors.Load(),
		AllocateBytes:    b.AllocateBytes.Load(),
		AllocateAvgNanos: b.getAvgAllocateNanos(),
		ReallocateCount:  b.ReallocateCount.Load(),
		ReallocateErrors: b.ReallocateErrors.Load(),
		FreeCount:        b.FreeCount.Load(),
		FreeBytes:        b.FreeBytes.Load(),
		SaveCount:        b.SaveCount.Load(),
		SaveErrors:       b.SaveErrors.Load(),
		SaveBytes:        b.SaveBytes.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAllocateNanos() int64 {
	count := b.AllocateCount.Load()
	if count == 0 {
		return 0
	}
	return b.AllocateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocateCount    int64
	AllocateErrors   int64
	AllocateBytes    int64
	AllocateAvgNanos int64
	ReallocateCount  int64
	ReallocateErrors int64
	FreeCount        int64
	FreeBytes        int64
	SaveCount        int64
	SaveErrors       int64
	SaveBytes        int64
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
}

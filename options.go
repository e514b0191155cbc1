package simdmem

import (
	"log/slog"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/resource"
	"github.com/hupe1980/simdmem/snapshot"
)

type options struct {
	alloc            alloc.Allocator
	offHeap          bool
	checked          bool
	budget           *resource.Controller
	compression      snapshot.Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Mem constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. allocator-specific constructor variants).
type Option func(*options)

// WithAllocator configures the allocator backing every storage channel.
//
// If nil is passed, alloc.DefaultAllocator is used. WithAllocator replaces
// any earlier WithOffHeap in the option list.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.DefaultAllocator
		}
		o.alloc = a
		o.offHeap = false
	}
}

// WithOffHeap places allocations outside the Go heap via anonymous mappings.
//
// The Mem owns the underlying alloc.MmapAllocator; Close unmaps every
// allocation still outstanding. WithOffHeap replaces any earlier
// WithAllocator in the option list.
func WithOffHeap() Option {
	return func(o *options) {
		o.alloc = nil
		o.offHeap = true
	}
}

// WithChecked wraps the allocator in an alloc.CheckedAllocator so leaks,
// double frees, and foreign frees are tracked. The wrapper is reachable via
// Mem.Checked for test assertions.
//
// Example:
//
//	m, _ := simdmem.Lanes[float32](8).Checked().Build()
//	// ... use m ...
//	m.Checked().AssertEmpty(t)
func WithChecked() Option {
	return func(o *options) {
		o.checked = true
	}
}

// WithBudget enforces a hard memory limit and IO pacing via a
// resource.Controller. Allocations beyond the limit fail with
// buffer.ErrBudgetExceeded; snapshot IO is rate limited.
//
// Pass nil to disable budgeting.
func WithBudget(rc *resource.Controller) Option {
	return func(o *options) {
		o.budget = rc
	}
}

// WithCompression selects the compression codec for snapshot saves.
// Loads always decode whatever the snapshot header declares.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// allocations and snapshot operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &simdmem.BasicMetricsCollector{}
//	m, _ := simdmem.Lanes[float32](8).Metrics(metrics).Build()
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Allocations: %d, Avg latency: %dns\n", stats.AllocateCount, stats.AllocateAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := simdmem.NewJSONLogger(slog.LevelInfo)
//	m, _ := simdmem.Lanes[float32](8).Logger(logger).Build()
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression:      snapshot.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

package snapshot

import (
	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/resource"
)

type config struct {
	compression Compression
	controller  *resource.Controller
	alloc       alloc.Allocator
}

// Option configures snapshot reads and writes.
type Option func(*config)

// WithCompression selects the payload compression. The default is
// CompressionNone, which is also the only mode OpenMmap accepts.
func WithCompression(c Compression) Option {
	return func(cfg *config) {
		cfg.compression = c
	}
}

// WithController paces snapshot I/O against the controller's byte-rate
// budget. A nil controller disables pacing.
func WithController(c *resource.Controller) Option {
	return func(cfg *config) {
		cfg.controller = c
	}
}

// WithAllocator sets the allocator Read uses for the payload buffer, so
// loaded vectors come back aligned. If nil is passed,
// alloc.DefaultAllocator is used.
func WithAllocator(a alloc.Allocator) Option {
	return func(cfg *config) {
		if a == nil {
			a = alloc.DefaultAllocator
		}
		cfg.alloc = a
	}
}

func applyOptions(optFns []Option) config {
	cfg := config{
		compression: CompressionNone,
		alloc:       alloc.DefaultAllocator,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&cfg)
		}
	}
	return cfg
}

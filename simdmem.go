package simdmem

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/hupe1980/simdmem/alloc"
	"github.com/hupe1980/simdmem/buffer"
	"github.com/hupe1980/simdmem/lane"
	"github.com/hupe1980/simdmem/snapshot"
)

// Mem mints aligned storage for one vector shape. Every buffer it creates
// shares the configured allocator, memory budget, logger, and metrics
// collector, and satisfies address mod align == 0 for the shape's alignment.
type Mem[T lane.Element] struct {
	desc     lane.Desc
	alloc    alloc.Allocator
	owned    *alloc.MmapAllocator
	checked  *alloc.CheckedAllocator
	metrics  MetricsCollector
	logger   *Logger
	bufOpts  []buffer.Option
	snapOpts []snapshot.Option
}

// newMem is the internal constructor behind Builder.Build.
func newMem[T lane.Element](lanes int, optFns ...Option) (*Mem[T], error) {
	opts := applyOptions(optFns)

	// Resolve through the decode path so an invalid lane count surfaces as an
	// error instead of the precondition panic lane.Of raises.
	desc, err := lane.New(lane.KindOf[T](), lane.SizeOf[T]()*8, lanes)
	if err != nil {
		return nil, err
	}

	m := &Mem[T]{
		desc:    desc,
		metrics: opts.metricsCollector,
		logger:  opts.logger.WithShape(desc),
	}

	base := opts.alloc
	if opts.offHeap {
		m.owned = alloc.NewMmapAllocator()
		base = m.owned
	}
	if base == nil {
		base = alloc.DefaultAllocator
	}
	if opts.checked {
		m.checked = alloc.NewCheckedAllocator(base)
		base = m.checked
	}
	m.alloc = &observedAllocator{
		inner:   base,
		metrics: m.metrics,
		logger:  m.logger,
	}

	m.bufOpts = []buffer.Option{buffer.WithAllocator(m.alloc)}
	m.snapOpts = []snapshot.Option{
		snapshot.WithCompression(opts.compression),
		snapshot.WithAllocator(m.alloc),
	}
	if opts.budget != nil {
		m.bufOpts = append(m.bufOpts, buffer.WithReserver(opts.budget))
		m.snapOpts = append(m.snapOpts, snapshot.WithController(opts.budget))
	}

	return m, nil
}

// Desc returns the shape descriptor shared by every buffer this Mem creates.
func (m *Mem[T]) Desc() lane.Desc {
	return m.desc
}

// Allocator returns the instrumented allocator backing this Mem. Buffers
// created directly through the buffer package with this allocator share the
// Mem's logging and metrics.
func (m *Mem[T]) Allocator() alloc.Allocator {
	return m.alloc
}

// Checked returns the leak-tracking wrapper installed by the Checked builder
// option, or nil if checking is disabled.
func (m *Mem[T]) Checked() *alloc.CheckedAllocator {
	return m.checked
}

// NewScalar allocates a single aligned vector.
func (m *Mem[T]) NewScalar() (*buffer.Scalar[T], error) {
	return buffer.NewScalar[T](m.desc.Lanes, m.bufOpts...)
}

// NewArray allocates n densely packed aligned vectors. n may be zero.
func (m *Mem[T]) NewArray(n int) (*buffer.Array[T], error) {
	return buffer.NewArray[T](m.desc.Lanes, n, m.bufOpts...)
}

// NewVector creates an empty growable buffer of aligned vectors.
func (m *Mem[T]) NewVector() (*buffer.Vector[T], error) {
	return buffer.NewVector[T](m.desc.Lanes, m.bufOpts...)
}

// NewPool creates a scratch pool for short-lived aligned vectors.
func (m *Mem[T]) NewPool() (*buffer.Pool[T], error) {
	return buffer.NewPool[T](m.desc.Lanes, m.bufOpts...)
}

// Static returns the process-lifetime buffer registered under name, creating
// it on first use. See buffer.Static for redefinition rules.
func (m *Mem[T]) Static(name string, n int) (*buffer.Global[T], error) {
	return buffer.Static[T](name, m.desc.Lanes, n, m.bufOpts...)
}

// Payload is a source of snapshot bytes. buffer.Array and buffer.Vector
// satisfy it.
type Payload interface {
	Desc() lane.Desc
	Bytes() []byte
}

// Save writes src as a snapshot to w and reports the bytes written.
// src must carry this Mem's shape.
func (m *Mem[T]) Save(ctx context.Context, w io.Writer, src Payload) (int64, error) {
	start := time.Now()

	if got := src.Desc(); got != m.desc {
		err := &ErrShapeMismatch{Want: m.desc, Got: got}
		m.metrics.RecordSave(0, time.Since(start), err)
		m.logger.LogSave(ctx, 0, err)
		return 0, err
	}

	n, err := snapshot.Write(ctx, w, m.desc, src.Bytes(), m.snapOpts...)
	m.metrics.RecordSave(n, time.Since(start), err)
	m.logger.LogSave(ctx, n, err)
	return n, err
}

// SaveFile writes src as a snapshot file at path.
func (m *Mem[T]) SaveFile(ctx context.Context, path string, src Payload) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := m.Save(ctx, f, src); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot from r into a freshly allocated array. The snapshot
// must carry this Mem's shape.
//
// The payload is staged through the configured allocator and copied into the
// array; use snapshot.OpenMmap for zero-copy read-only access.
func (m *Mem[T]) Load(ctx context.Context, r io.Reader) (*buffer.Array[T], error) {
	start := time.Now()

	snap, err := snapshot.Read(ctx, r, m.snapOpts...)
	if err != nil {
		m.metrics.RecordLoad(0, time.Since(start), err)
		m.logger.LogLoad(ctx, 0, err)
		return nil, err
	}
	defer snap.Free()

	if got := snap.Desc(); got != m.desc {
		err := &ErrShapeMismatch{Want: m.desc, Got: got}
		m.metrics.RecordLoad(0, time.Since(start), err)
		m.logger.LogLoad(ctx, 0, err)
		return nil, err
	}

	a, err := m.NewArray(snap.Count())
	if err != nil {
		m.metrics.RecordLoad(0, time.Since(start), err)
		m.logger.LogLoad(ctx, 0, err)
		return nil, err
	}
	copy(a.Bytes(), snap.Bytes())

	m.metrics.RecordLoad(int64(len(snap.Bytes())), time.Since(start), nil)
	m.logger.LogLoad(ctx, snap.Count(), nil)
	return a, nil
}

// LoadFile reads the snapshot file at path into a freshly allocated array.
func (m *Mem[T]) LoadFile(ctx context.Context, path string) (*buffer.Array[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return m.Load(ctx, f)
}

// observedAllocator reports every allocator call to the Mem's metrics
// collector and logger. It is the seam that instruments all four storage
// channels at once.
type observedAllocator struct {
	inner   alloc.Allocator
	metrics MetricsCollector
	logger  *Logger
}

func (o *observedAllocator) Allocate(size, align int) ([]byte, error) {
	start := time.Now()
	b, err := o.inner.Allocate(size, align)
	o.metrics.RecordAllocate(size, time.Since(start), err)
	o.logger.LogAllocate(size, align, err)
	return b, err
}

func (o *observedAllocator) Reallocate(size, align int, b []byte) ([]byte, error) {
	start := time.Now()
	nb, err := o.inner.Reallocate(size, align, b)
	o.metrics.RecordReallocate(size, time.Since(start), err)
	o.logger.LogReallocate(size, align, err)
	return nb, err
}

func (o *observedAllocator) Free(b []byte) {
	size := len(b)
	o.inner.Free(b)
	if size > 0 {
		o.metrics.RecordFree(size)
		o.logger.LogFree(size)
	}
}

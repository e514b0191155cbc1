package buffer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/simdmem/lane"
)

var (
	staticMu  sync.Mutex
	staticMap = map[string]any{}
)

// Global is a named, process-lifetime run of aligned vectors, the analog
// of static storage duration. It has no release operation: the allocation
// and its budget reservation live until the process exits.
type Global[T lane.Element] struct {
	name string
	desc lane.Desc
	n    int
	mem  []byte
	data []T
}

// Static returns the static buffer registered under name, allocating it
// zero-initialized on first use. Later calls with the same name, element
// type and shape return the same handle; a different element type, lane
// count or length reports ErrStaticRedefined.
func Static[T lane.Element](name string, lanes, n int, optFns ...Option) (*Global[T], error) {
	desc, err := descFor[T](lanes)
	if err != nil {
		return nil, err
	}

	total, err := arraySize(desc.Size, n)
	if err != nil {
		return nil, err
	}

	staticMu.Lock()
	defer staticMu.Unlock()

	if existing, ok := staticMap[name]; ok {
		g, ok := existing.(*Global[T])
		if !ok || g.desc != desc || g.n != n {
			return nil, fmt.Errorf("%w: %q", ErrStaticRedefined, name)
		}

		return g, nil
	}

	cfg := applyOptions(optFns)

	if err := cfg.reserve(total); err != nil {
		return nil, err
	}

	mem, err := cfg.alloc.Allocate(total, desc.Align)
	if err != nil {
		cfg.release(total)
		return nil, err
	}

	g := &Global[T]{
		name: name,
		desc: desc,
		n:    n,
		mem:  mem,
		data: view[T](mem, n*desc.Lanes),
	}

	staticMap[name] = g

	return g, nil
}

// StaticNames returns the names of all registered static buffers, sorted.
func StaticNames() []string {
	staticMu.Lock()
	defer staticMu.Unlock()

	names := make([]string, 0, len(staticMap))
	for name := range staticMap {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Name returns the registry name the buffer was created under.
func (g *Global[T]) Name() string {
	return g.name
}

// Desc returns the descriptor shared by every vector in the buffer.
func (g *Global[T]) Desc() lane.Desc {
	return g.desc
}

// Len returns the number of vectors.
func (g *Global[T]) Len() int {
	return g.n
}

// At returns the i-th vector. It panics when i is out of range.
func (g *Global[T]) At(i int) []T {
	if i < 0 || i >= g.n {
		panic(fmt.Sprintf("buffer: static index %d out of range [0:%d]", i, g.n))
	}

	lo, hi := i*g.desc.Lanes, (i+1)*g.desc.Lanes

	return g.data[lo:hi:hi]
}

// Data returns all vectors as one flat slice of n*lanes elements.
func (g *Global[T]) Data() []T {
	return g.data
}

// Addr returns the allocation's base address, 0 when the buffer is empty.
func (g *Global[T]) Addr() uintptr {
	return addr(g.mem)
}

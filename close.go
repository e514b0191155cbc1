package simdmem

// Close releases resources held by this Mem instance.
//
// This is only meaningful for off-heap instances (OffHeap builder option),
// where it unmaps every allocation still outstanding. For heap-backed
// instances it is a no-op; individual buffers are released through their own
// Free, Close, and Release paths.
func (m *Mem[T]) Close() error {
	if m == nil {
		return nil
	}
	var firstErr error
	if m.owned != nil {
		if err := m.owned.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.owned = nil
	}
	return firstErr
}

package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mapping.bin")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

func TestOpen(t *testing.T) {
	content := []byte("Hello, Mmap!")
	path := writeTempFile(t, content)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.bin"))
	assert.Error(t, err)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := writeTempFile(t, nil)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Nil(t, m.Bytes())
}

func TestSlice(t *testing.T) {
	content := []byte("0123456789abcdef")
	path := writeTempFile(t, content)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	b, err := m.Slice(4, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("456789"), b)

	// A zero-length slice at the very end is in bounds.
	b, err = m.Slice(len(content), 0)
	require.NoError(t, err)
	assert.Empty(t, b)

	for _, bad := range [][2]int{{-1, 0}, {0, -1}, {0, len(content) + 1}, {12, 5}} {
		_, err = m.Slice(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestMapAnon(t *testing.T) {
	size := 4096 * 3
	m, err := MapAnon(size)
	require.NoError(t, err)

	data := m.Bytes()
	require.Len(t, data, size)

	// Anonymous pages are zero-filled and writable.
	for _, b := range data[:64] {
		require.Equal(t, byte(0), b)
	}
	data[0] = 0xAB
	data[size-1] = 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
	assert.Equal(t, byte(0xCD), m.Bytes()[size-1])

	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())

	// Close is idempotent.
	assert.NoError(t, m.Close())
}

func TestMapAnon_ZeroSize(t *testing.T) {
	m, err := MapAnon(0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Size())
	assert.Nil(t, m.Bytes())
	assert.NoError(t, m.Close())
}

func TestMapAnon_NegativeSize(t *testing.T) {
	_, err := MapAnon(-1)
	assert.Equal(t, ErrInvalidSize, err)
}

package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "artifact.svg")

	wrote, err := WriteFileAtomic(path, []byte("<svg/>"))
	require.NoError(t, err)
	assert.True(t, wrote)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(content))
}

func TestWriteFileAtomicSkipsIdenticalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.svg")

	wrote, err := WriteFileAtomic(path, []byte("same"))
	require.NoError(t, err)
	require.True(t, wrote)

	info, err := os.Stat(path)
	require.NoError(t, err)

	wrote, err = WriteFileAtomic(path, []byte("same"))
	require.NoError(t, err)
	assert.False(t, wrote)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestWriteFileAtomicReplacesChangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.svg")

	_, err := WriteFileAtomic(path, []byte("old"))
	require.NoError(t, err)

	wrote, err := WriteFileAtomic(path, []byte("new"))
	require.NoError(t, err)
	assert.True(t, wrote)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.svg")

	_, err := WriteFileAtomic(path, []byte("a"))
	require.NoError(t, err)
	_, err = WriteFileAtomic(path, []byte("b"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "artifact.svg", entries[0].Name())
}

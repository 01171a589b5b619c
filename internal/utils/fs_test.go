package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, DirExists(tmpDir))
	assert.False(t, DirExists(filepath.Join(tmpDir, "missing")))

	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.False(t, DirExists(file), "a regular file is not a working copy")
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	assert.True(t, DirExists(dir))

	// idempotent
	require.NoError(t, EnsureDir(dir))
}

func TestIsWritableDir(t *testing.T) {
	tmpDir := t.TempDir()
	assert.True(t, IsWritableDir(tmpDir))
	assert.False(t, IsWritableDir(filepath.Join(tmpDir, "missing")))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde only", "~", home},
		{"tilde prefix", "~/.reposync/history", filepath.Join(home, ".reposync/history")},
		{"absolute", "/tmp/x", "/tmp/x"},
		{"relative", "repos", "repos"},
		{"tilde in middle", "a/~/b", "a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

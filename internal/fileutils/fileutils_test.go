package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir), "directories are not files")
	assert.False(t, FileExists(filepath.Join(dir, "missing.txt")))
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(filepath.Join(dir, "nope")))
}

func TestListFilesWithExtensions(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "2024")
	require.NoError(t, os.MkdirAll(nested, 0750))

	for _, name := range []string{
		filepath.Join(dir, "b_fatura.PDF"),
		filepath.Join(dir, "a_extrato.ofx"),
		filepath.Join(dir, "notes.md"),
		filepath.Join(dir, ".hidden.csv"),
		filepath.Join(nested, "c.csv"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0600))
	}

	files, err := ListFilesWithExtensions(dir, StatementExtensions...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(nested, "c.csv"),
		filepath.Join(dir, "a_extrato.ofx"),
		filepath.Join(dir, "b_fatura.PDF"),
	}, files)
}

func TestListFilesWithExtensions_MissingDir(t *testing.T) {
	_, err := ListFilesWithExtensions(filepath.Join(t.TempDir(), "missing"), ".csv")
	assert.ErrorContains(t, err, "directory does not exist")
}

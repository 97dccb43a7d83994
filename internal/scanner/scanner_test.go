package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestScanFilesChunkedPagination(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 250; i++ {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("f%03d.txt", i)), 10)
	}

	page1, err := ScanFilesChunked(dir, 0, 100, nil, false)
	require.NoError(t, err)
	assert.Len(t, page1.Records, 100)
	assert.True(t, page1.HasMore)

	page2, err := ScanFilesChunked(dir, 100, 100, nil, false)
	require.NoError(t, err)
	assert.Len(t, page2.Records, 100)
	assert.True(t, page2.HasMore)

	page3, err := ScanFilesChunked(dir, 200, 100, nil, false)
	require.NoError(t, err)
	assert.Len(t, page3.Records, 50)
	assert.False(t, page3.HasMore)
}

func TestScanDirectoriesOnlySkipsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))

	descs, err := ScanDirectoriesOnly(dir, 0, nil)
	require.NoError(t, err)
	for _, d := range descs {
		assert.NotContains(t, d.Path, "node_modules")
	}
}

func TestLoadRootItemsFiltersNoise(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))

	result, err := LoadRootItems(dir, false, false)
	require.NoError(t, err)
	names := make([]string, len(result.Entries))
	for i, e := range result.Entries {
		names[i] = e.Name
	}
	assert.NotContains(t, names, ".git")
	assert.Contains(t, names, "src")
}

func TestLoadFolderContentsOrdersDirsBeforeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), 1)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a-dir"), 0755))

	result, err := LoadFolderContents(dir, false)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.True(t, result.Entries[0].IsDirectory)
	assert.False(t, result.Entries[1].IsDirectory)
}

func TestScanEverythingCleanSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "z.txt"), 1)
	writeFile(t, filepath.Join(dir, "a.txt"), 1)

	descs, err := ScanEverythingClean(dir, false)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Less(t, descs[0].Path, descs[1].Path)
}

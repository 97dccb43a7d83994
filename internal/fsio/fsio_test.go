package fsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartReadOrdinaryText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	res, err := SmartRead(path)
	require.NoError(t, err)
	assert.True(t, res.HasContent)
	assert.Equal(t, "hello world", res.Content)
	assert.False(t, res.IsBinary)
	assert.Empty(t, res.Warning)
}

func TestSmartReadDetectsBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.bin")
	data := append([]byte("abc"), 0x00, 'd', 'e')
	require.NoError(t, os.WriteFile(path, data, 0644))

	res, err := SmartRead(path)
	require.NoError(t, err)
	assert.True(t, res.IsBinary)
	assert.False(t, res.HasContent)
}

func TestSmartReadWarningBoundary(t *testing.T) {
	dir := t.TempDir()

	atThreshold := filepath.Join(dir, "at.txt")
	require.NoError(t, os.WriteFile(atThreshold, make([]byte, WarnThreshold), 0644))
	res, err := SmartRead(atThreshold)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)

	overThreshold := filepath.Join(dir, "over.txt")
	require.NoError(t, os.WriteFile(overThreshold, make([]byte, WarnThreshold+1), 0644))
	res, err = SmartRead(overThreshold)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
}

func TestCreateFailsIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, Create(path, "x"))
	err := Create(path, "y")
	require.Error(t, err)
}

func TestDeleteRequiresForceForNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "f.txt"), []byte("x"), 0644))

	require.Error(t, Delete(sub, false))
	require.NoError(t, Delete(sub, true))
}

func TestCopyRejectsExistingTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("b"), 0644))

	require.Error(t, Copy(src, dst))
}

func TestMoveRenamesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0644))

	require.NoError(t, Move(src, dst))
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateDirectoryAllIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, CreateDirectoryAll(p))
	require.NoError(t, CreateDirectoryAll(p))
}

package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldSkipDefaultNames(t *testing.T) {
	m := NewMatcher(t.TempDir(), nil)
	assert.True(t, m.ShouldSkip("node_modules"))
	assert.True(t, m.ShouldSkip(".git"))
	assert.False(t, m.ShouldSkip("src"))
}

func TestIgnoredHonorsGitignoreFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\n"), 0644))

	m := NewMatcher(dir, nil)
	assert.True(t, m.Ignored("debug.log"))
	assert.False(t, m.Ignored("main.go"))
}

func TestIgnoredHonorsExtraSkipNames(t *testing.T) {
	m := NewMatcher(t.TempDir(), []string{"vendor"})
	assert.True(t, m.Ignored("vendor/foo.go"))
}

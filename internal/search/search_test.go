package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPatternRejectsShortQuery(t *testing.T) {
	_, err := BuildPattern("a", Options{})
	require.Error(t, err)
}

func TestBuildPatternRejectsInvalidRegex(t *testing.T) {
	_, err := BuildPattern("(unclosed", Options{UseRegex: true})
	require.Error(t, err)
}

func TestSearchWholeWordExcludesSuperstrings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("foo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("foobar\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.go"), []byte("barfoo\n"), 0644))

	data, err := Search(dir, "foo", Options{WholeWord: true, CaseSensitive: false})
	require.NoError(t, err)
	assert.Equal(t, 1, data.TotalMatches)
	require.Len(t, data.Results, 1)
	assert.Equal(t, filepath.Join(dir, "a.go"), data.Results[0].Path)
}

func TestSearchReportsLineAndColumn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("xx needle yy\n"), 0644))

	data, err := Search(dir, "needle", Options{})
	require.NoError(t, err)
	require.Len(t, data.Results, 1)
	m := data.Results[0].Matches[0]
	assert.Equal(t, 1, m.Line)
	assert.Equal(t, 4, m.Column)
	assert.Greater(t, m.MatchEnd, m.MatchStart)
}

func TestSearchRespectsFileTypeFilters(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("target\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("target\n"), 0644))

	data, err := Search(dir, "target", Options{IncludeFileTypes: []string{".go"}})
	require.NoError(t, err)
	require.Len(t, data.Results, 1)
	assert.Equal(t, filepath.Join(dir, "a.go"), data.Results[0].Path)
}

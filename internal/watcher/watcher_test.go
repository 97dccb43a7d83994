package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	h := NewHolder(100, 100)

	id1, _, err := h.Start(dir)
	require.NoError(t, err)
	id2, _, err := h.Start(dir)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, h.Stats().ActiveWatches)

	require.NoError(t, h.Stop(id1))
}

func TestClassificationCreatedModifiedDeleted(t *testing.T) {
	// t.TempDir() usually lies under /tmp/, which the watcher treats as a
	// problematic directory and never watches, so use a directory here.
	rel, err := os.MkdirTemp(".", "watch-classify-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(rel) })
	dir, err := filepath.Abs(rel)
	require.NoError(t, err)
	h := NewHolder(100, 100)
	id, _, err := h.Start(dir)
	require.NoError(t, err)
	defer h.Stop(id)

	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	ev := waitForEvent(t, h, target, EventCreated)
	assert.Equal(t, EventCreated, ev.Kind)

	require.NoError(t, os.WriteFile(target, []byte("xy"), 0644))
	ev = waitForEvent(t, h, target, EventModified)
	assert.Equal(t, EventModified, ev.Kind)

	require.NoError(t, os.Remove(target))
	ev = waitForEvent(t, h, target, EventDeleted)
	assert.Equal(t, EventDeleted, ev.Kind)
}

func waitForEvent(t *testing.T, h *Holder, path string, kind EventKind) Event {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-h.Changes():
			if ev.Path == path {
				return ev
			}
		case <-time.After(100 * time.Millisecond):
		}
	}
	t.Fatalf("timed out waiting for %s event on %s", kind, path)
	return Event{}
}

func TestChooseStrategySmallTreeIsFull(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, StrategyFull, ChooseStrategy(dir))
}

func TestChooseStrategyNodeModulesIsSelective(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0755))
	assert.Equal(t, StrategySelective, ChooseStrategy(dir))
}

func TestIsProblematicAcceptsButFlags(t *testing.T) {
	assert.True(t, isProblematic("/home/user/project/node_modules/pkg"))
	assert.False(t, isProblematic("/home/user/project/src"))
}

package ptymux

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty sessions are exercised on unix-like runners only")
	}
}

func TestCreateSendReadEcho(t *testing.T) {
	skipOnWindows(t)

	m := NewManager(1000)
	s, err := m.Create(t.TempDir(), 80, 24)
	require.NoError(t, err)
	defer m.Close(s.ID)

	require.NoError(t, s.SendInput("echo hello\n"))

	deadline := time.Now().Add(2 * time.Second)
	var out string
	for time.Now().Before(deadline) {
		out += s.ReadOutput(200)
		if strings.Contains(out, "hello") {
			break
		}
	}
	assert.Contains(t, out, "hello")
}

func TestCloseMakesSessionNotFound(t *testing.T) {
	skipOnWindows(t)

	m := NewManager(1000)
	s, err := m.Create(t.TempDir(), 80, 24)
	require.NoError(t, err)
	require.NoError(t, m.Close(s.ID))

	_, err = m.Get(s.ID)
	require.Error(t, err)
}

func TestListDirectory(t *testing.T) {
	entries, err := ListDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

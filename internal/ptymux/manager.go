package ptymux

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

// Manager holds a map id → session behind a mutex; each session's
// internals are independently mutex-guarded so operations on distinct
// sessions never block each other.
type Manager struct {
	mu             sync.RWMutex
	sessions       map[string]*Session
	defaultChannel int
}

// NewManager returns an empty Manager. defaultChannelSize sizes new
// sessions' reader channel capacity.
func NewManager(defaultChannelSize int) *Manager {
	if defaultChannelSize <= 0 {
		defaultChannelSize = 1000
	}
	return &Manager{sessions: make(map[string]*Session), defaultChannel: defaultChannelSize}
}

// Create opens a new session and registers it.
func (m *Manager) Create(cwd string, cols, rows int) (*Session, error) {
	s, err := New(cwd, cols, rows, m.defaultChannel)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	LogStarted(s.ID, s.Shell, s.CWD)
	return s, nil
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeSessionNotFound, "session not found").WithField("id")
	}
	return s, nil
}

// Close closes and removes a session. Subsequent operations on id
// fail with session-not-found.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeSessionNotFound, "session not found").WithField("id")
	}
	delete(m.sessions, id)
	m.mu.Unlock()
	return s.Close()
}

// List returns session ids and basic info for list_terminal_sessions.
type SessionInfo struct {
	ID           string
	CWD          string
	Shell        string
	CreatedAt    time.Time
	LastActivity time.Time
}

func (m *Manager) List() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, SessionInfo{ID: s.ID, CWD: s.CWD, Shell: s.Shell, CreatedAt: s.CreatedAt, LastActivity: s.LastActivity()})
	}
	return out
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TerminalInfo is the payload for get_terminal_info.
type TerminalInfo struct {
	Shell    string
	CWD      string
	Env      map[string]string
	OS       string
	Arch     string
	Username string
	Hostname string
}

// GetTerminalInfo reports the host environment the kernel is running
// under, independent of any particular session.
func GetTerminalInfo(cwd string) TerminalInfo {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	hostname, _ := os.Hostname()
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	return TerminalInfo{
		Shell:    defaultShell(),
		CWD:      cwd,
		Env:      env,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Username: username,
		Hostname: hostname,
	}
}

// ChangeDirectory validates dir is a directory and returns its
// absolute form; the kernel has no persistent process cwd, so this is
// advisory for the caller to track per terminal tab.
func ChangeDirectory(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot change directory", err).WithPath(dir)
	}
	if !info.IsDir() {
		return "", kernelerrors.New(kernelerrors.Filesystem, "NOT_A_DIRECTORY", "not a directory").WithPath(dir)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs, nil
	}
	return dir, nil
}

// ListDirectoryEntry is one entry returned by ListDirectory.
type ListDirectoryEntry struct {
	Name        string
	IsDirectory bool
}

// ListDirectory lists a single directory level (auxiliary PTY command
// distinct from the scanner's UI-tree loaders).
func ListDirectory(dir string) ([]ListDirectoryEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot list directory", err).WithPath(dir)
	}
	out := make([]ListDirectoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ListDirectoryEntry{Name: e.Name(), IsDirectory: e.IsDir()})
	}
	return out, nil
}

// KillProcess sends a platform-appropriate termination signal to pid.
func KillProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeInternal, "process not found", err)
	}
	if runtime.GOOS == "windows" {
		if err := exec.Command("taskkill", "/PID", strconv.Itoa(pid), "/F").Run(); err != nil {
			return kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeInternal, "taskkill failed", err)
		}
		return nil
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeInternal, "cannot signal process", err)
	}
	return nil
}

// SystemInfo is the payload for get_system_info.
type SystemInfo struct {
	OS        string
	Arch      string
	NumCPU    int
	GoVersion string
}

func GetSystemInfo() SystemInfo {
	return SystemInfo{OS: runtime.GOOS, Arch: runtime.GOARCH, NumCPU: runtime.NumCPU(), GoVersion: runtime.Version()}
}

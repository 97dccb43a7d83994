package dispatch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ternarybob/syntari-kernel/internal/adapters"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
	"github.com/ternarybob/syntari-kernel/internal/ptymux"
)

func (d *Dispatcher) CreateTerminalSession(cwd string, cols, rows int) (*ptymux.Session, error) {
	if cols <= 0 {
		cols = d.Cfg.Pty.DefaultCols
	}
	if rows <= 0 {
		rows = d.Cfg.Pty.DefaultRows
	}
	return d.Pty.Create(cwd, cols, rows)
}

func (d *Dispatcher) SendTerminalInput(id, input string) (struct{}, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, s.SendInput(input)
}

func (d *Dispatcher) ReadTerminalOutput(id string, timeoutMs int) (string, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return "", err
	}
	return s.ReadOutput(timeoutMs), nil
}

func (d *Dispatcher) ResizeTerminalSession(id string, cols, rows int) (struct{}, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, s.Resize(cols, rows)
}

func (d *Dispatcher) CloseTerminalSession(id string) (struct{}, error) {
	return struct{}{}, d.Pty.Close(id)
}

// ExecuteShellCommandResult is the payload for execute_shell_command.
type ExecuteShellCommandResult struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exit_code"`
}

func (d *Dispatcher) ExecuteShellCommand(id, command string) (ExecuteShellCommandResult, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return ExecuteShellCommandResult{}, err
	}
	output, code, execErr := ptymux.ExecuteShellCommand(s, command)
	if execErr != nil {
		return ExecuteShellCommandResult{}, execErr
	}
	return ExecuteShellCommandResult{Output: output, ExitCode: code}, nil
}

func (d *Dispatcher) GetTerminalInfo(cwd string) (ptymux.TerminalInfo, error) {
	return ptymux.GetTerminalInfo(cwd), nil
}

func (d *Dispatcher) ChangeDirectory(path string) (string, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return "", err
	}
	return ptymux.ChangeDirectory(canonical)
}

func (d *Dispatcher) ListDirectory(path string) ([]ptymux.ListDirectoryEntry, error) {
	canonical, err := pathsec.Validate(path)
	if err != nil {
		return nil, err
	}
	return ptymux.ListDirectory(canonical)
}

func (d *Dispatcher) KillProcess(pid int) (struct{}, error) {
	return struct{}{}, ptymux.KillProcess(pid)
}

func (d *Dispatcher) GetSystemInfo() (ptymux.SystemInfo, error) {
	return ptymux.GetSystemInfo(), nil
}

func (d *Dispatcher) GetTerminalSessionInfo(id string) (ptymux.SessionInfo, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return ptymux.SessionInfo{}, err
	}
	return ptymux.SessionInfo{ID: s.ID, CWD: s.CWD, Shell: s.Shell, CreatedAt: s.CreatedAt, LastActivity: s.LastActivity()}, nil
}

func (d *Dispatcher) ListTerminalSessions() ([]ptymux.SessionInfo, error) {
	return d.Pty.List(), nil
}

// SaveTerminalScreenshot persists content (typically a rendered ANSI
// capture) under the user's documents directory, per the persisted
// state contract.
func (d *Dispatcher) SaveTerminalScreenshot(content, filename string) (string, error) {
	return saveUnderDocuments("terminal-screenshots", filename, content)
}

// ExportTerminalSession persists a session's accumulated output under
// the user's documents directory.
func (d *Dispatcher) ExportTerminalSession(id, filename string) (string, error) {
	s, err := d.Pty.Get(id)
	if err != nil {
		return "", err
	}
	return saveUnderDocuments("terminal-exports", filename, s.ReadOutput(0))
}

func saveUnderDocuments(subdir, filename, content string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot resolve home directory", err)
	}
	dir := filepath.Join(home, "Documents", "Syntari", subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot create documents subdirectory", err).WithPath(dir)
	}
	// Joined without cleaning so Validate sees any ".." in filename.
	full, err := pathsec.Validate(dir + string(filepath.Separator) + filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return "", kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot write file", err).WithPath(full)
	}
	return full, nil
}

// RequestTerminalAIAssist hands a terminal context blob to the AI
// router for a best-effort suggestion; it degrades to the mock
// response when no provider is configured.
func (d *Dispatcher) RequestTerminalAIAssist(termContext string) (adapters.ConsensusResult, error) {
	return d.Ai.Generate(context.Background(), adapters.GenerateRequest{Prompt: "Terminal assist request:\n" + termContext})
}

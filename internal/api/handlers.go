package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/syntari-kernel/internal/adapters"
	"github.com/ternarybob/syntari-kernel/internal/dispatch"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/search"
)

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: version, Service: "syntari-kerneld"})
}

// commandRequest is the single-endpoint envelope the UI posts: a
// command name plus its raw payload, dispatched by name the same way
// the teacher's JSON-RPC handler dispatches by method.
type commandRequest struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, dispatch.Fail(kernelerrors.Wrap(kernelerrors.Internal, "JSON_ERROR", "cannot parse command body", err)))
		return
	}

	env := s.dispatchCommand(req.Command, req.Payload)
	writeJSON(w, http.StatusOK, env)
}

// decodePayload unmarshals raw into a zero value of T; an empty raw
// payload decodes to the zero value without error, since several
// commands (get_app_stats, get_user_preferences, get_ai_providers,
// get_system_info, get_terminal_info with no cwd) take no arguments.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, kernelerrors.Wrap(kernelerrors.Internal, "JSON_ERROR", "cannot decode payload", err)
	}
	return v, nil
}

func (s *Server) dispatchCommand(command string, raw json.RawMessage) dispatch.Envelope {
	d := s.disp

	switch command {

	// Lifecycle / state
	case "initialize_app":
		return dispatch.From(d.InitializeApp())
	case "get_app_stats":
		return dispatch.From(d.GetAppStats())
	case "get_user_preferences":
		return dispatch.From(d.GetUserPreferences())
	case "set_user_preference":
		p, err := decodePayload[struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SetUserPreference(p.Key, p.Value))

	// Project
	case "open_project":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.OpenProject(p.Path))

	// Filesystem read-side
	case "read_file":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ReadFile(p.Path))
	case "read_file_smart":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ReadFileSmart(p.Path))
	case "get_directory_mtime":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GetDirectoryMtime(p.Path))
	case "check_folder_permissions":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CheckFolderPermissions(p.Path))
	case "scan_directories_only":
		p, err := decodePayload[struct {
			Path           string
			MaxDepth       int      `json:"maxDepth"`
			IgnorePatterns []string `json:"ignorePatterns"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ScanDirectoriesOnly(p.Path, p.MaxDepth, p.IgnorePatterns))
	case "scan_files_chunked":
		p, err := decodePayload[struct {
			Path           string
			Offset         int
			Limit          int
			IgnorePatterns []string `json:"ignorePatterns"`
			IncludeHidden  bool     `json:"includeHidden"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ScanFilesChunked(p.Path, p.Offset, p.Limit, p.IgnorePatterns, p.IncludeHidden))
	case "scan_files_streaming":
		p, err := decodePayload[struct {
			Path           string
			ChunkSize      int      `json:"chunkSize"`
			IgnorePatterns []string `json:"ignorePatterns"`
			IncludeHidden  bool     `json:"includeHidden"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ScanFilesStreaming(p.Path, p.ChunkSize, p.IgnorePatterns, p.IncludeHidden))
	case "scan_everything_clean":
		p, err := decodePayload[struct {
			Path          string
			IncludeHidden bool `json:"includeHidden"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ScanEverythingClean(p.Path, p.IncludeHidden))
	case "load_folder_contents":
		p, err := decodePayload[struct {
			Path              string
			IncludeHidden     bool `json:"includeHidden"`
			ShowHiddenFolders bool `json:"showHiddenFolders"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.LoadFolderContents(p.Path, p.IncludeHidden, p.ShowHiddenFolders))
	case "load_root_items":
		p, err := decodePayload[struct {
			Path              string
			IncludeHidden     bool `json:"includeHidden"`
			ShowHiddenFolders bool `json:"showHiddenFolders"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.LoadRootItems(p.Path, p.IncludeHidden, p.ShowHiddenFolders))
	case "list_backup_files":
		p, err := decodePayload[struct{ Dir string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ListBackupFiles(p.Dir))
	case "debug_test_command":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.DebugTestCommand(p.Path))

	// Filesystem write-side
	case "save_file", "write_file":
		p, err := decodePayload[struct{ Path, Content string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SaveFile(p.Path, p.Content))
	case "create_file":
		p, err := decodePayload[struct{ Path, Content string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CreateFile(p.Path, p.Content))
	case "delete_file":
		p, err := decodePayload[struct {
			Path  string
			Force bool
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.DeleteFile(p.Path, p.Force))
	case "copy_file":
		p, err := decodePayload[struct{ Src, Dst string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CopyFile(p.Src, p.Dst))
	case "move_file":
		p, err := decodePayload[struct{ Src, Dst string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.MoveFile(p.Src, p.Dst))
	case "create_directory":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CreateDirectory(p.Path))
	case "create_dir_all":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CreateDirAll(p.Path))
	case "get_app_data_dir":
		return dispatch.From(d.GetAppDataDir())

	// Search
	case "search_in_project":
		p, err := decodePayload[struct {
			Root    string
			Query   string
			Options search.Options
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SearchInProject(p.Root, p.Query, p.Options))
	case "search_in_project_streaming":
		p, err := decodePayload[struct {
			Root       string
			Query      string
			Options    search.Options
			MaxResults int `json:"maxResults"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SearchInProjectStreaming(p.Root, p.Query, p.Options, p.MaxResults))

	// Watcher
	case "start_file_watcher":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.StartFileWatcher(p.Path))
	case "stop_file_watcher":
		p, err := decodePayload[struct{ ID string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.StopFileWatcher(p.ID))
	case "get_file_watcher_stats":
		return dispatch.From(d.GetFileWatcherStats())

	// PTY
	case "create_terminal_session":
		p, err := decodePayload[struct {
			Cwd  string
			Cols int
			Rows int
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CreateTerminalSession(p.Cwd, p.Cols, p.Rows))
	case "send_terminal_input":
		p, err := decodePayload[struct{ ID, Input string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SendTerminalInput(p.ID, p.Input))
	case "read_terminal_output":
		p, err := decodePayload[struct {
			ID        string
			TimeoutMs int `json:"timeoutMs"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ReadTerminalOutput(p.ID, p.TimeoutMs))
	case "resize_terminal_session":
		p, err := decodePayload[struct {
			ID         string
			Cols, Rows int
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ResizeTerminalSession(p.ID, p.Cols, p.Rows))
	case "close_terminal_session":
		p, err := decodePayload[struct{ ID string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CloseTerminalSession(p.ID))
	case "execute_shell_command":
		p, err := decodePayload[struct{ ID, Command string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ExecuteShellCommand(p.ID, p.Command))
	case "get_terminal_info":
		p, err := decodePayload[struct{ Cwd string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GetTerminalInfo(p.Cwd))
	case "change_directory":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ChangeDirectory(p.Path))
	case "list_directory":
		p, err := decodePayload[struct{ Path string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ListDirectory(p.Path))
	case "kill_process":
		p, err := decodePayload[struct{ Pid int }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.KillProcess(p.Pid))
	case "get_system_info":
		return dispatch.From(d.GetSystemInfo())
	case "get_terminal_session_info":
		p, err := decodePayload[struct{ ID string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GetTerminalSessionInfo(p.ID))
	case "list_terminal_sessions":
		return dispatch.From(d.ListTerminalSessions())
	case "save_terminal_screenshot":
		p, err := decodePayload[struct{ Content, Filename string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SaveTerminalScreenshot(p.Content, p.Filename))
	case "export_terminal_session":
		p, err := decodePayload[struct{ ID, Filename string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ExportTerminalSession(p.ID, p.Filename))
	case "request_terminal_ai_assist":
		p, err := decodePayload[struct{ Context string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.RequestTerminalAIAssist(p.Context))

	// Chat
	case "create_chat_session":
		p, err := decodePayload[struct {
			ProjectPath string `json:"projectPath"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.CreateChatSession(p.ProjectPath))
	case "send_chat_message":
		p, err := decodePayload[struct{ ID, Content string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.SendChatMessage(p.ID, p.Content))
	case "get_chat_session":
		p, err := decodePayload[struct{ ID string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GetChatSession(p.ID))

	// AI
	case "get_ai_providers":
		return dispatch.From(d.GetAiProviders())
	case "generate_ai_response":
		p, err := decodePayload[adapters.GenerateRequest](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GenerateAiResponse(p))
	case "resolve_library_id":
		p, err := decodePayload[struct{ Name string }](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.ResolveLibraryID(p.Name))
	case "get_library_docs":
		p, err := decodePayload[struct {
			ID        string
			Topic     string
			MaxTokens int `json:"maxTokens"`
		}](raw)
		if err != nil {
			return dispatch.Fail(err)
		}
		return dispatch.From(d.GetLibraryDocs(p.ID, p.Topic, p.MaxTokens))

	default:
		if env, ok := dispatchGitCommand(d, command, raw); ok {
			return env
		}
		return dispatch.Fail(kernelerrors.New(kernelerrors.Internal, "ITEM_NOT_FOUND", fmt.Sprintf("unknown command %q", command)))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

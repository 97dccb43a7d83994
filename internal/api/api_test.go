package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/dispatch"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Service.DataDir = t.TempDir()
	cfg.Ai.GeminiAPIKey = ""
	cfg.Ai.MCPDocsEndpoint = ""
	return NewServer(cfg, dispatch.New(cfg))
}

func postCommand(t *testing.T, s *Server, command string, payload any) map[string]any {
	t.Helper()
	body := map[string]any{"command": command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body["payload"] = json.RawMessage(raw)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(string(raw)))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCommandInitializeApp(t *testing.T) {
	s := newTestServer(t)
	out := postCommand(t, s, "initialize_app", nil)
	assert.Equal(t, true, out["success"])
	assert.NotNil(t, out["data"])
}

func TestCommandUnknownReturnsFailureEnvelope(t *testing.T) {
	s := newTestServer(t)
	out := postCommand(t, s, "not_a_real_command", nil)
	assert.Equal(t, false, out["success"])
	errPayload, ok := out["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ITEM_NOT_FOUND", errPayload["code"])
}

func TestCommandSetAndGetUserPreference(t *testing.T) {
	s := newTestServer(t)

	out := postCommand(t, s, "set_user_preference", map[string]any{"key": "theme", "value": "dark"})
	assert.Equal(t, true, out["success"])

	out = postCommand(t, s, "get_user_preferences", nil)
	require.Equal(t, true, out["success"])
	data, ok := out["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dark", data["theme"])
}

func TestCommandChatRoundTrip(t *testing.T) {
	s := newTestServer(t)

	created := postCommand(t, s, "create_chat_session", map[string]any{"projectPath": "/tmp/demo"})
	require.Equal(t, true, created["success"])
	data := created["data"].(map[string]any)
	id := data["ID"].(string)
	require.NotEmpty(t, id)

	sent := postCommand(t, s, "send_chat_message", map[string]any{"id": id, "content": "hello"})
	assert.Equal(t, true, sent["success"])
}

package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/syntari-kernel/internal/adapters"
	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Service.DataDir = t.TempDir()
	cfg.Ai.GeminiAPIKey = ""
	cfg.Ai.MCPDocsEndpoint = ""
	return New(cfg)
}

func TestEnvelopeOkAndFail(t *testing.T) {
	ok := From("hello", nil)
	assert.True(t, ok.Success)
	assert.Equal(t, "hello", ok.Data)

	kerr := kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeValidationFailed, "bad input")
	fail := From(nil, kerr)
	assert.False(t, fail.Success)
	require.NotNil(t, fail.Error)
	assert.Equal(t, "VALIDATION_FAILED", fail.Error.Code)
	assert.False(t, fail.Error.Recoverable)
}

func TestFailWrapsPlainError(t *testing.T) {
	env := Fail(assertError{"boom"})
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_ERROR", env.Error.Code)
	assert.Equal(t, "INTERNAL", env.Error.Category)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }

func TestInitializeAppAndStats(t *testing.T) {
	d := newTestDispatcher(t)
	_, err := d.InitializeApp()
	require.NoError(t, err)

	stats, err := d.GetAppStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.AiProviders)
}

func TestOpenProjectDetectsGoModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/widget\n\nrequire (\n\tgithub.com/stretchr/testify v1.9.0\n)\n"), 0644))

	d := newTestDispatcher(t)
	ctx, err := d.OpenProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "go", ctx.ProjectType)
	assert.Contains(t, ctx.Dependencies, "github.com/stretchr/testify")

	stats, err := d.GetAppStats()
	require.NoError(t, err)
	assert.True(t, stats.HasCurrentProj)
}

func TestFileWriteReadRoundTrip(t *testing.T) {
	d := newTestDispatcher(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "note.txt")

	_, err := d.CreateFile(target, "hello kernel")
	require.NoError(t, err)

	content, err := d.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello kernel", content)
}

func TestChatSessionLifecycle(t *testing.T) {
	d := newTestDispatcher(t)
	session, err := d.CreateChatSession("/tmp/project")
	require.NoError(t, err)

	_, err = d.SendChatMessage(session.ID, "hello there")
	require.NoError(t, err)

	got, err := d.GetChatSession(session.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello there", got.Messages[0].Content)
}

func TestGenerateAiResponseUsesMockWhenUnconfigured(t *testing.T) {
	d := newTestDispatcher(t)
	result, err := d.GenerateAiResponse(adapters.GenerateRequest{Prompt: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "mock", result.Provider)
}

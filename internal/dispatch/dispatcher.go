package dispatch

import (
	"github.com/ternarybob/syntari-kernel/internal/adapters"
	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/pathintern"
	"github.com/ternarybob/syntari-kernel/internal/ptymux"
	"github.com/ternarybob/syntari-kernel/internal/state"
	"github.com/ternarybob/syntari-kernel/internal/watcher"
)

// Dispatcher composes every kernel component. It holds no business
// state of its own; CurrentProject/ChatSessions/etc. all live in
// Kernel, one mutex-guarded aggregate per component.
type Dispatcher struct {
	Cfg      *config.Config
	Interner *pathintern.Interner
	Kernel   *state.Kernel
	Watcher  *watcher.Holder
	Pty      *ptymux.Manager
	Ai       adapters.AiRouter
}

// New builds a Dispatcher wired from cfg: a mock AI router unless a
// Gemini API key or MCP docs endpoint is configured, in which case the
// network-backed router is used (itself falling back to the mock on
// any live failure).
func New(cfg *config.Config) *Dispatcher {
	var router adapters.AiRouter
	if cfg.Ai.GeminiAPIKey != "" || cfg.Ai.MCPDocsEndpoint != "" {
		router = adapters.NewMCPRouter(cfg.Ai)
	} else {
		router = adapters.NewMockRouter()
	}

	return &Dispatcher{
		Cfg:      cfg,
		Interner: pathintern.New(),
		Kernel:   state.NewKernel(),
		Watcher:  watcher.NewHolder(cfg.Watcher.ChangeBufferSize, cfg.Watcher.DeleteBufferSize),
		Pty:      ptymux.NewManager(cfg.Pty.ReaderChannelSize),
		Ai:       router,
	}
}

package state

import (
	"sync"
	"time"
)

// ProjectContext is the payload held by the kernel's current-project
// optional once open_project succeeds.
type ProjectContext struct {
	RootPath     string
	ProjectType  string
	Dependencies []string
	GitBranch    string
	Framework    string
	EntryFiles   map[string]string // relative path -> file content
	OpenedAt     time.Time
}

// ChatRole is the speaker of one chat message.
type ChatRole string

const (
	RoleUser   ChatRole = "user"
	RoleAi     ChatRole = "ai"
	RoleSystem ChatRole = "system"
)

// ChatMessage is one append-only entry in a chat session's log.
type ChatMessage struct {
	Role      ChatRole
	Content   string
	Timestamp time.Time
	Metadata  map[string]string
}

// ChatSession is a named, append-only conversation bound to a project.
type ChatSession struct {
	ID          string
	DisplayName string
	ProjectPath string
	Messages    []ChatMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProviderRecord describes one configured AI provider and its
// approximate economics. It is seeded into the kernel's AiProviders
// collection, whose size get_stats reports; the AI adapters do not
// read it.
type ProviderRecord struct {
	ID              string
	Name            string
	CostPerToken    float64
	AvgLatencyMs    int
	SupportsMCPDocs bool
}

// Preferences is a mutex-guarded string-keyed map of opaque values,
// distinct from Collection because its contract (get_all, remove→bool)
// differs from the id-keyed entity contract.
type Preferences struct {
	mu     sync.RWMutex
	values map[string]any
}

func newPreferences() *Preferences {
	return &Preferences{values: make(map[string]any)}
}

func (p *Preferences) Get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *Preferences) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

func (p *Preferences) GetAll() map[string]any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Remove deletes key and reports whether it was present.
func (p *Preferences) Remove(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.values[key]
	delete(p.values, key)
	return ok
}

func (p *Preferences) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = make(map[string]any)
}

// Kernel is the single process-wide state aggregate: current project,
// chat sessions, AI providers, and preferences, each independently
// mutex-guarded so operations on one sub-collection never block
// another (no cross-collection atomicity is offered or needed).
type Kernel struct {
	CurrentProject *Optional[ProjectContext]
	ChatSessions   *Collection[ChatSession]
	AiProviders    *Collection[ProviderRecord]
	Preferences    *Preferences
}

// NewKernel returns a Kernel with seeded default providers and
// baseline preferences already populated. Seeding is idempotent: it
// always writes the same ids/keys, so calling NewKernel twice (or
// reseeding) never accumulates duplicates.
func NewKernel() *Kernel {
	k := &Kernel{
		CurrentProject: NewOptional[ProjectContext](),
		ChatSessions:   NewCollection[ChatSession](),
		AiProviders:    NewCollection[ProviderRecord](),
		Preferences:    newPreferences(),
	}
	k.seedDefaults()
	return k
}

func (k *Kernel) seedDefaults() {
	k.AiProviders.Add("claude", ProviderRecord{
		ID: "claude", Name: "Claude", CostPerToken: 0.000015, AvgLatencyMs: 900, SupportsMCPDocs: true,
	})
	k.AiProviders.Add("gpt4-class", ProviderRecord{
		ID: "gpt4-class", Name: "GPT-4-class", CostPerToken: 0.00003, AvgLatencyMs: 1200, SupportsMCPDocs: false,
	})
	k.AiProviders.Add("gemini-class", ProviderRecord{
		ID: "gemini-class", Name: "Gemini-class", CostPerToken: 0.0000075, AvgLatencyMs: 700, SupportsMCPDocs: false,
	})

	k.Preferences.Set("theme", "dark")
	k.Preferences.Set("cost_cap_usd", 5.0)
	k.Preferences.Set("auto_save", true)
	k.Preferences.Set("default_provider", "claude")
}

// Stats is the get_stats payload: sub-collection counts plus whether
// a project is currently loaded.
type Stats struct {
	ChatSessions   int  `json:"chat_sessions"`
	AiProviders    int  `json:"ai_providers"`
	Preferences    int  `json:"preferences"`
	HasCurrentProj bool `json:"has_current_project"`
}

func (k *Kernel) Stats() Stats {
	return Stats{
		ChatSessions:   k.ChatSessions.Count(),
		AiProviders:    k.AiProviders.Count(),
		Preferences:    len(k.Preferences.GetAll()),
		HasCurrentProj: k.CurrentProject.Has(),
	}
}

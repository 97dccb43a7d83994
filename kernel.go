// Package syntarikernel is the embeddable entry point for the Syntari IDE
// backend kernel: filesystem access, project search, PTY terminals, file
// watching, and AI-assist state behind one dispatcher.
//
// # Quick Start
//
//	cfg := syntarikernel.DefaultConfig()
//	disp := syntarikernel.New(cfg)
//
//	result, err := disp.OpenProject("/path/to/project")
//
// syntari-kerneld (cmd/syntari-kerneld) wraps the same Dispatcher behind an
// HTTP command endpoint and an SSE event stream; this package is the
// in-process equivalent for callers that want to embed the kernel directly.
//
// # Architecture
//
//   - Dispatcher composes every component (path interning, path security,
//     file I/O, scanning, search, watching, PTY sessions, in-memory state,
//     AI routing) with no business state of its own.
//   - Every operation returns a plain (data, error) pair; internal/api
//     renders that pair into the HTTP envelope contract.
//   - AI features degrade to a deterministic mock router when no provider
//     is configured, so the kernel runs fully offline by default.
package syntarikernel

import (
	"github.com/ternarybob/syntari-kernel/internal/config"
	"github.com/ternarybob/syntari-kernel/internal/dispatch"
)

// Dispatcher is an alias for the kernel's command dispatcher.
type Dispatcher = dispatch.Dispatcher

// Config is an alias for the kernel's configuration type.
type Config = config.Config

// New creates a new Dispatcher wired from the given configuration.
func New(cfg *Config) *Dispatcher {
	return dispatch.New(cfg)
}

// DefaultConfig returns the kernel's default configuration.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig loads configuration from a TOML file at path.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

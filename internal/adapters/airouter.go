// Package adapters implements the kernel's pluggable external
// boundaries: an AI router trait-shaped interface with a mock and an
// MCP/Gemini-backed implementation, plus an optional Git adapter
// behind a build tag. None of the core kernel components import this
// package directly; the dispatcher wires whichever implementation is
// configured.
package adapters

import "context"

// Library is one result of resolve_library_id.
type Library struct {
	ID          string
	Name        string
	Description string
}

// ConsensusResult is the outcome of a generation request: the best
// response plus the alternatives that were considered, with a
// confidence score, the cost in US dollars, and the provider used.
type ConsensusResult struct {
	Best         string
	Alternatives []string
	Confidence   float64
	CostUSD      float64
	Provider     string
}

// GenerateRequest is the input to Generate.
type GenerateRequest struct {
	Prompt      string
	Provider    string // empty means adapter picks a default
	MaxTokens   int
	Temperature float64
}

// AiRouter is the trait-shaped boundary the dispatcher depends on.
// The kernel does not prescribe how an implementation picks a
// provider or ranks alternatives; a mock that only ever returns one
// candidate still honors the contract.
type AiRouter interface {
	ResolveLibraryID(ctx context.Context, name string) ([]Library, error)
	GetLibraryDocs(ctx context.Context, id, topic string, maxTokens int) (string, error)
	Generate(ctx context.Context, req GenerateRequest) (ConsensusResult, error)
}

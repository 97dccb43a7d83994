package adapters

import (
	"context"
	"fmt"
	"strings"
)

// MockRouter is an AiRouter that never calls out to a network. It
// exists so the kernel can run (and be tested) with no API keys
// configured, and so the dispatcher's envelope contract has something
// real to exercise before any provider is wired.
type MockRouter struct{}

func NewMockRouter() *MockRouter {
	return &MockRouter{}
}

func (m *MockRouter) ResolveLibraryID(_ context.Context, name string) ([]Library, error) {
	return []Library{
		{ID: "/mock/" + strings.ToLower(name), Name: name, Description: "mock library match for " + name},
	}, nil
}

func (m *MockRouter) GetLibraryDocs(_ context.Context, id, topic string, maxTokens int) (string, error) {
	if topic == "" {
		topic = "overview"
	}
	return fmt.Sprintf("mock docs for %s (%s), capped at %d tokens", id, topic, maxTokens), nil
}

func (m *MockRouter) Generate(_ context.Context, req GenerateRequest) (ConsensusResult, error) {
	best := "mock response to: " + req.Prompt
	return ConsensusResult{
		Best:         best,
		Alternatives: nil,
		Confidence:   0.5,
		CostUSD:      0,
		Provider:     "mock",
	}, nil
}

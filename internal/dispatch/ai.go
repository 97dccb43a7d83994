package dispatch

import (
	"context"

	"github.com/ternarybob/syntari-kernel/internal/adapters"
	"github.com/ternarybob/syntari-kernel/internal/state"
)

func (d *Dispatcher) GetAiProviders() ([]state.ProviderRecord, error) {
	return d.Kernel.AiProviders.List(), nil
}

func (d *Dispatcher) GenerateAiResponse(req adapters.GenerateRequest) (adapters.ConsensusResult, error) {
	return d.Ai.Generate(context.Background(), req)
}

func (d *Dispatcher) ResolveLibraryID(name string) ([]adapters.Library, error) {
	return d.Ai.ResolveLibraryID(context.Background(), name)
}

func (d *Dispatcher) GetLibraryDocs(id, topic string, maxTokens int) (string, error) {
	return d.Ai.GetLibraryDocs(context.Background(), id, topic, maxTokens)
}

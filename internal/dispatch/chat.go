package dispatch

import "github.com/ternarybob/syntari-kernel/internal/state"

func (d *Dispatcher) CreateChatSession(projectPath string) (state.ChatSession, error) {
	return d.Kernel.CreateChatSession(projectPath, ""), nil
}

func (d *Dispatcher) SendChatMessage(id, content string) (state.ChatSession, error) {
	return d.Kernel.SendChatMessage(id, content)
}

func (d *Dispatcher) GetChatSession(id string) (state.ChatSession, error) {
	return d.Kernel.GetChatSession(id)
}

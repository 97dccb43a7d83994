package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

// CreateChatSession starts a new session bound to projectPath and
// registers it in the kernel's chat-session collection.
func (k *Kernel) CreateChatSession(projectPath, displayName string) ChatSession {
	now := time.Now()
	session := ChatSession{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		ProjectPath: projectPath,
		Messages:    make([]ChatMessage, 0, 4),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	k.ChatSessions.Add(session.ID, session)
	return session
}

// GetChatSession looks up a session by id.
func (k *Kernel) GetChatSession(id string) (ChatSession, error) {
	s, ok := k.ChatSessions.Get(id)
	if !ok {
		return ChatSession{}, kernelerrors.New(kernelerrors.Chat, kernelerrors.CodeChatNotFound, "chat session not found").WithField("id")
	}
	return s, nil
}

// AppendChatMessage appends msg to session id, preserving append
// order, and returns the updated session.
func (k *Kernel) AppendChatMessage(id string, msg ChatMessage) (ChatSession, error) {
	s, err := k.GetChatSession(id)
	if err != nil {
		return ChatSession{}, err
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.Timestamp
	k.ChatSessions.Update(id, s)
	return s, nil
}

// SendChatMessage is the convenience operation behind send_chat_message:
// it appends a user message to the session's log.
func (k *Kernel) SendChatMessage(id, content string) (ChatSession, error) {
	return k.AppendChatMessage(id, ChatMessage{Role: RoleUser, Content: content})
}

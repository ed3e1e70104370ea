package models

import (
	"time"
)

// Message roles in the agent transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AgentMessage is one turn of the chat transcript. Messages are immutable
// once appended; ordering is append order. The transcript lives only in
// memory for the duration of the workspace session.
type AgentMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

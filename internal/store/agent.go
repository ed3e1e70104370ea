package store

import (
	"atlas/internal/domain/models"
)

// ToggleAgent opens or closes the assistant panel.
func (s *Store) ToggleAgent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentOpen = !s.agentOpen
}

// BeginAgentTurn marks an assistant turn in flight. Returns false if
// one is already running; at most one turn may mutate the transcript
// at a time.
func (s *Store) BeginAgentTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agentProcessing {
		return false
	}
	s.agentProcessing = true
	return true
}

// EndAgentTurn clears the in-flight flag.
func (s *Store) EndAgentTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentProcessing = false
}

// AgentProcessing reports whether an assistant turn is in flight.
func (s *Store) AgentProcessing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agentProcessing
}

// AppendAgentMessage appends one immutable message to the transcript.
func (s *Store) AppendAgentMessage(message models.AgentMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentMessages = append(s.agentMessages, message)
}

// AgentMessages returns a copy of the transcript in append order.
func (s *Store) AgentMessages() []models.AgentMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AgentMessage(nil), s.agentMessages...)
}

// ClearAgentMessages discards the transcript.
func (s *Store) ClearAgentMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentMessages = nil
}

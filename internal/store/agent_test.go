package store

import (
	"log/slog"
	"testing"

	"atlas/internal/domain/models"
)

func TestAgentTurnFlag(t *testing.T) {
	s := New(nil, slog.Default())

	if !s.BeginAgentTurn() {
		t.Fatal("first turn should acquire the flag")
	}
	if s.BeginAgentTurn() {
		t.Error("second turn must be refused while one is in flight")
	}
	if !s.AgentProcessing() {
		t.Error("flag should report in flight")
	}

	s.EndAgentTurn()
	if s.AgentProcessing() {
		t.Error("flag should clear")
	}
	if !s.BeginAgentTurn() {
		t.Error("flag should be reacquirable after the turn ends")
	}
}

func TestAgentTranscript(t *testing.T) {
	s := New(nil, slog.Default())

	s.AppendAgentMessage(models.AgentMessage{ID: "1", Role: models.RoleUser, Content: "hi"})
	s.AppendAgentMessage(models.AgentMessage{ID: "2", Role: models.RoleAssistant, Content: "hello"})

	messages := s.AgentMessages()
	if len(messages) != 2 || messages[0].ID != "1" || messages[1].ID != "2" {
		t.Fatalf("transcript = %+v", messages)
	}

	// Mutating the returned slice must not touch the store.
	messages[0].Content = "changed"
	if s.AgentMessages()[0].Content != "hi" {
		t.Error("AgentMessages should return a copy")
	}

	s.ClearAgentMessages()
	if len(s.AgentMessages()) != 0 {
		t.Error("transcript should be empty after clear")
	}
}

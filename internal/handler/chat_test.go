package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas/internal/agent"
	"atlas/internal/domain/models"
	"atlas/internal/store"
)

type fakeRunner struct {
	reply      string
	err        error
	transcript []models.AgentMessage
	doc        *agent.DocumentContext
}

func (f *fakeRunner) Run(_ context.Context, transcript []models.AgentMessage, doc *agent.DocumentContext) (string, error) {
	f.transcript = transcript
	f.doc = doc
	return f.reply, f.err
}

func newChatHandler(runner AgentRunner) (*ChatHandler, *store.Store) {
	st := store.New(nil, slog.Default())
	return NewChatHandler(runner, st, slog.Default()), st
}

func TestChat(t *testing.T) {
	runner := &fakeRunner{reply: "here you go"}
	h, st := newChatHandler(runner)

	body := strings.NewReader(`{"message":"find my notes","context":{"title":"Plan","content":"step one"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "here you go" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("transcript length = %d, want user + assistant", len(resp.Messages))
	}
	if resp.Messages[0].Role != "user" || resp.Messages[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", resp.Messages[0].Role, resp.Messages[1].Role)
	}
	if resp.Messages[0].ID == "" || resp.Messages[0].ID == resp.Messages[1].ID {
		t.Error("messages need distinct ids")
	}

	if runner.doc == nil || runner.doc.Title != "Plan" {
		t.Errorf("document context not passed: %+v", runner.doc)
	}
	// The runner sees the transcript including the new user message.
	if len(runner.transcript) != 1 || runner.transcript[0].Content != "find my notes" {
		t.Errorf("runner transcript = %+v", runner.transcript)
	}
	if st.AgentProcessing() {
		t.Error("processing flag should clear after the turn")
	}
}

func TestChatValidation(t *testing.T) {
	h, _ := newChatHandler(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatRoundLimitMapsTo502(t *testing.T) {
	runner := &fakeRunner{err: &agent.RoundLimitError{Limit: 8}}
	h, st := newChatHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"loop"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	// The user message stays in the transcript; no assistant message is
	// appended for a failed turn.
	if got := len(st.AgentMessages()); got != 1 {
		t.Errorf("transcript length = %d, want 1", got)
	}
}

func TestChatBusyReturnsConflict(t *testing.T) {
	h, st := newChatHandler(&fakeRunner{reply: "ok"})
	if !st.BeginAgentTurn() {
		t.Fatal("store should start idle")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	// The rejected request must not touch the transcript or the flag.
	if got := len(st.AgentMessages()); got != 0 {
		t.Errorf("transcript length = %d, want 0", got)
	}
	if !st.AgentProcessing() {
		t.Error("in-flight turn's flag should survive the rejection")
	}
}

func TestChatUnconfigured(t *testing.T) {
	h, _ := newChatHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatMessagesLifecycle(t *testing.T) {
	h, _ := newChatHandler(&fakeRunner{reply: "ok"})

	post := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	h.Chat(httptest.NewRecorder(), post)

	rec := httptest.NewRecorder()
	h.GetMessages(rec, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))

	var resp struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("messages = %d", len(resp.Messages))
	}

	clearRec := httptest.NewRecorder()
	h.ClearMessages(clearRec, httptest.NewRequest(http.MethodDelete, "/api/chat/messages", nil))
	if clearRec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", clearRec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetMessages(rec, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("messages after clear = %d", len(resp.Messages))
	}
}

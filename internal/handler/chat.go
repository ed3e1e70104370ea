package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"atlas/internal/agent"
	"atlas/internal/domain"
	"atlas/internal/domain/models"
	"atlas/internal/httputil"
	"atlas/internal/store"
)

// AgentRunner runs one agent conversation turn over the full transcript.
type AgentRunner interface {
	Run(ctx context.Context, transcript []models.AgentMessage, doc *agent.DocumentContext) (string, error)
}

// ChatHandler handles assistant chat requests.
type ChatHandler struct {
	runner AgentRunner
	store  *store.Store
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(runner AgentRunner, st *store.Store, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		runner: runner,
		store:  st,
		logger: logger,
	}
}

// ChatRequest is the payload for one chat turn. Context carries the
// document the user has open, if any.
type ChatRequest struct {
	Message string              `json:"message"`
	Context *ChatContextRequest `json:"context"`
}

// ChatContextRequest is the open-document context of a chat turn.
type ChatContextRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate implements request validation.
func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required),
	)
}

// ChatResponse carries the assistant's final answer and the updated
// transcript.
type ChatResponse struct {
	Reply    string                `json:"reply"`
	Messages []models.AgentMessage `json:"messages"`
}

// Chat runs one full agent turn.
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		handleError(w, &domain.ConfigError{Message: "agent is not configured"})
		return
	}

	var req ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	var doc *agent.DocumentContext
	if req.Context != nil {
		doc = &agent.DocumentContext{
			Title:   req.Context.Title,
			Content: req.Context.Content,
		}
	}

	// One turn at a time; concurrent sends would interleave appends.
	if !h.store.BeginAgentTurn() {
		handleError(w, &domain.ConflictError{Message: "assistant turn already in progress"})
		return
	}
	defer h.store.EndAgentTurn()

	h.store.AppendAgentMessage(models.AgentMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   req.Message,
		Timestamp: time.Now().UTC(),
	})

	reply, err := h.runner.Run(r.Context(), h.store.AgentMessages(), doc)
	if err != nil {
		h.logger.Error("agent turn failed", "error", err)
		handleError(w, err)
		return
	}

	h.store.AppendAgentMessage(models.AgentMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	})

	httputil.RespondJSON(w, http.StatusOK, ChatResponse{
		Reply:    reply,
		Messages: h.store.AgentMessages(),
	})
}

// GetMessages returns the current transcript.
// GET /api/chat/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages":   h.store.AgentMessages(),
		"processing": h.store.AgentProcessing(),
	})
}

// ClearMessages discards the transcript.
// DELETE /api/chat/messages
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	h.store.ClearAgentMessages()
	w.WriteHeader(http.StatusNoContent)
}

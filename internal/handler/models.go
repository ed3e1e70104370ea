package handler

import (
	"log/slog"
	"net/http"

	"atlas/internal/agent/profile"
	"atlas/internal/config"
	"atlas/internal/httputil"
)

// ModelsHandler serves the agent model catalog.
type ModelsHandler struct {
	config   *config.Config
	registry *profile.Registry
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(cfg *config.Config, registry *profile.Registry, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		registry: registry,
		logger:   logger,
	}
}

// ModelsResponse lists the available agent models.
type ModelsResponse struct {
	Provider string          `json:"provider"`
	Models   []profile.Model `json:"models"`
	Default  string          `json:"default"`
}

// GetModels returns the model catalog. Models are only advertised when
// the provider is actually usable.
// GET /api/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	resp := ModelsResponse{
		Provider: h.registry.Provider(),
		Models:   []profile.Model{},
		Default:  h.config.AgentModel,
	}

	if h.config.AnthropicAPIKey != "" {
		resp.Models = h.registry.Models()
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"atlas/internal/domain/models"
	"atlas/internal/httputil"
	"atlas/internal/service"
)

// WorkspaceAPI is the service surface the node handlers need.
type WorkspaceAPI interface {
	LoadTree(ctx context.Context) (map[string]*models.Node, error)
	CreateNode(ctx context.Context, req *service.CreateNodeRequest) (*models.Node, error)
	UpdateNode(ctx context.Context, id string, req *service.UpdateNodeRequest) (*models.Node, error)
	DeleteNode(ctx context.Context, id string) error
	Revisions(ctx context.Context, nodeID string) ([]models.Revision, error)
}

// NodesHandler handles the document tree endpoints.
type NodesHandler struct {
	workspace WorkspaceAPI
	logger    *slog.Logger
}

// NewNodesHandler creates a new nodes handler.
func NewNodesHandler(workspace WorkspaceAPI, logger *slog.Logger) *NodesHandler {
	return &NodesHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// TreeResponse is the full tree payload.
type TreeResponse struct {
	Nodes   map[string]*models.Node `json:"nodes"`
	RootIDs []string                `json:"rootIds"`
}

// GetTree rehydrates and returns the full node tree.
// GET /api/nodes
func (h *NodesHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.workspace.LoadTree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	rootIDs := []string{}
	for id, node := range nodes {
		if node.ParentID == nil {
			rootIDs = append(rootIDs, id)
		}
	}

	httputil.RespondJSON(w, http.StatusOK, TreeResponse{
		Nodes:   nodes,
		RootIDs: rootIDs,
	})
}

// CreateNode creates a new tree node.
// POST /api/nodes
func (h *NodesHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req service.CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.workspace.CreateNode(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNode applies a partial update to a node.
// PATCH /api/nodes/{id}
func (h *NodesHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	var req service.UpdateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	node, err := h.workspace.UpdateNode(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode removes a node and its subtree.
// DELETE /api/nodes/{id}
func (h *NodesHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	if err := h.workspace.DeleteNode(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRevisions lists the revision history for a node.
// GET /api/nodes/{id}/revisions
func (h *NodesHandler) GetRevisions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	revisions, err := h.workspace.Revisions(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"revisions": revisions,
		"count":     len(revisions),
	})
}

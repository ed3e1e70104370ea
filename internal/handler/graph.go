package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"atlas/internal/domain/models"
	"atlas/internal/httputil"
)

// GraphService is the slice of the Athena client the graph handlers
// use. Everything is read-only.
type GraphService interface {
	Overview(ctx context.Context) (*models.GraphOverview, error)
	ClusterDetail(ctx context.Context, clusterID string) (*models.ClusterDetail, error)
	ClusterMemories(ctx context.Context, clusterID string, limit, offset int) (*models.ClusterMemories, error)
	MemoryDetail(ctx context.Context, memoryID string) (*models.MemoryDetail, error)
	Stats(ctx context.Context) (*models.GraphStats, error)
	Search(ctx context.Context, query string, limit int) (*models.GraphSearchResponse, error)
}

// GraphHandler passes knowledge-graph queries through to Athena.
type GraphHandler struct {
	graph  GraphService
	logger *slog.Logger
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(graph GraphService, logger *slog.Logger) *GraphHandler {
	return &GraphHandler{
		graph:  graph,
		logger: logger,
	}
}

// Overview returns the domain-level clusters.
// GET /api/graph/overview
func (h *GraphHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.graph.Overview(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, overview)
}

// Cluster returns the topic clusters inside one domain cluster.
// GET /api/graph/clusters/{id}
func (h *GraphHandler) Cluster(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Cluster ID is required")
		return
	}

	detail, err := h.graph.ClusterDetail(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// ClusterMemories returns one page of a topic cluster's memories.
// GET /api/graph/clusters/{id}/memories?limit=&offset=
func (h *GraphHandler) ClusterMemories(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Cluster ID is required")
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	memories, err := h.graph.ClusterMemories(r.Context(), id, limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, memories)
}

// Memory returns the full record for one memory.
// GET /api/graph/memories/{id}
func (h *GraphHandler) Memory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Memory ID is required")
		return
	}

	detail, err := h.graph.MemoryDetail(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// Stats returns graph service statistics.
// GET /api/graph/stats
func (h *GraphHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.graph.Stats(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// Search runs a free-text search across graph memories.
// GET /api/graph/search?q=&limit=
func (h *GraphHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	resp, err := h.graph.Search(r.Context(), query, queryInt(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// queryInt reads an integer query parameter, falling back on absent or
// malformed values.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

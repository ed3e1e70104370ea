package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"atlas/internal/domain"
	"atlas/internal/domain/models"
	"atlas/internal/httputil"
	"atlas/internal/store"
)

// FilesHandler handles the remote file endpoints. All operations go
// through the workspace store so the mirrored tree stays consistent.
type FilesHandler struct {
	store      *store.Store
	configured bool
	logger     *slog.Logger
}

// NewFilesHandler creates a new files handler. configured reports
// whether Nextcloud credentials are present; without them every
// endpoint answers with a config error instead of opaque failures.
func NewFilesHandler(st *store.Store, configured bool, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		store:      st,
		configured: configured,
		logger:     logger,
	}
}

// PathRequest names a remote path.
type PathRequest struct {
	Path string `json:"path"`
}

// Validate implements request validation.
func (r PathRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
	)
}

// ListRequest asks for a directory listing. Refresh forces a re-list
// that drops remotely deleted entries.
type ListRequest struct {
	Path    string `json:"path"`
	Refresh bool   `json:"refresh"`
}

func (h *FilesHandler) checkConfigured(w http.ResponseWriter) bool {
	if !h.configured {
		handleError(w, &domain.ConfigError{Message: "nextcloud is not configured"})
		return false
	}
	return true
}

// List lists a remote directory and returns its entries.
// POST /api/nextcloud/list
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w) {
		return
	}

	var req ListRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Path == "" {
		req.Path = "/"
	}

	var err error
	if req.Refresh {
		err = h.store.RefreshFolder(r.Context(), req.Path)
	} else {
		err = h.store.LoadFolder(r.Context(), req.Path)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"path":  models.NormalizePath(req.Path),
		"items": h.listChildren(req.Path),
	})
}

// listChildren assembles the child items of a directory from the store.
func (h *FilesHandler) listChildren(path string) []*models.TreeItem {
	normalized := models.NormalizePath(path)

	var childPaths []string
	if normalized == "/" || normalized == "" {
		childPaths = h.store.RootPaths()
	} else if dir := h.store.Item(normalized); dir != nil {
		childPaths = dir.Children
	}

	items := make([]*models.TreeItem, 0, len(childPaths))
	for _, childPath := range childPaths {
		if item := h.store.Item(childPath); item != nil {
			items = append(items, item)
		}
	}
	return items
}

// ReadFile fetches a file body.
// POST /api/nextcloud/file
func (h *FilesHandler) ReadFile(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w) {
		return
	}

	var req PathRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	content, err := h.store.LoadFile(r.Context(), req.Path)
	if err != nil {
		handleError(w, err)
		return
	}
	if content == nil {
		// A fetch for this path is already in flight; serve the cached
		// body if there is one.
		if cached, ok := h.store.CachedFileContent(req.Path); ok {
			httputil.RespondJSON(w, http.StatusOK, models.FileContent{
				Path:    models.NormalizePath(req.Path),
				Content: cached,
			})
			return
		}
		httputil.RespondError(w, http.StatusConflict, "file fetch already in progress")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, content)
}

// SaveRequest writes a file body.
type SaveRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Validate implements request validation.
func (r SaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
	)
}

// SaveFile writes a file body to the remote source.
// POST /api/nextcloud/save
func (h *FilesHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w) {
		return
	}

	var req SaveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := h.store.SaveFile(r.Context(), req.Path, req.Content); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"path":   models.NormalizePath(req.Path),
		"status": "saved",
	})
}

// Mkdir creates a remote directory.
// POST /api/nextcloud/mkdir
func (h *FilesHandler) Mkdir(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w) {
		return
	}

	var req PathRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := h.store.CreateFolder(r.Context(), req.Path); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"path":   models.NormalizePath(req.Path),
		"status": "created",
	})
}

// Delete removes a remote file or directory.
// POST /api/nextcloud/delete
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w) {
		return
	}

	var req PathRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := h.store.Delete(r.Context(), req.Path); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

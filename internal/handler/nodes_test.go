package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas/internal/domain"
	"atlas/internal/domain/models"
	"atlas/internal/service"
)

type fakeWorkspace struct {
	nodes      map[string]*models.Node
	created    *models.Node
	updated    *models.Node
	revisions  []models.Revision
	err        error
	deletedIDs []string
}

func (f *fakeWorkspace) LoadTree(_ context.Context) (map[string]*models.Node, error) {
	return f.nodes, f.err
}

func (f *fakeWorkspace) CreateNode(_ context.Context, req *service.CreateNodeRequest) (*models.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return f.created, f.err
}

func (f *fakeWorkspace) UpdateNode(_ context.Context, id string, _ *service.UpdateNodeRequest) (*models.Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeWorkspace) DeleteNode(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeWorkspace) Revisions(_ context.Context, _ string) ([]models.Revision, error) {
	return f.revisions, f.err
}

func newNodesHandler(ws *fakeWorkspace) *NodesHandler {
	return NewNodesHandler(ws, slog.Default())
}

func TestGetTree(t *testing.T) {
	parent := "a"
	ws := &fakeWorkspace{nodes: map[string]*models.Node{
		"a": {ID: "a", Title: "A", Children: []string{"b"}},
		"b": {ID: "b", Title: "B", ParentID: &parent, Children: []string{}},
	}}
	h := newNodesHandler(ws)

	req := httptest.NewRequest(http.MethodGet, "/api/nodes", nil)
	rec := httptest.NewRecorder()
	h.GetTree(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp TreeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Nodes) != 2 {
		t.Errorf("nodes = %d", len(resp.Nodes))
	}
	if len(resp.RootIDs) != 1 || resp.RootIDs[0] != "a" {
		t.Errorf("rootIds = %v", resp.RootIDs)
	}
}

func TestGetTreeUpstreamError(t *testing.T) {
	ws := &fakeWorkspace{err: &domain.UpstreamError{Service: "zeus", Status: 503}}
	h := newNodesHandler(ws)

	rec := httptest.NewRecorder()
	h.GetTree(rec, httptest.NewRequest(http.MethodGet, "/api/nodes", nil))

	// Upstream status is forwarded, not collapsed to 500.
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestCreateNode(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ws := &fakeWorkspace{created: &models.Node{ID: "n1", Title: "New"}}
		h := newNodesHandler(ws)

		body := strings.NewReader(`{"title":"New","content":"body"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/nodes", body)
		rec := httptest.NewRecorder()
		h.CreateNode(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing title", func(t *testing.T) {
		h := newNodesHandler(&fakeWorkspace{})

		req := httptest.NewRequest(http.MethodPost, "/api/nodes", strings.NewReader(`{"content":"x"}`))
		rec := httptest.NewRecorder()
		h.CreateNode(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newNodesHandler(&fakeWorkspace{})

		req := httptest.NewRequest(http.MethodPost, "/api/nodes", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		h.CreateNode(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestUpdateNodeNotFound(t *testing.T) {
	ws := &fakeWorkspace{err: fmt.Errorf("%w: node x", domain.ErrNotFound)}
	h := newNodesHandler(ws)

	req := httptest.NewRequest(http.MethodPatch, "/api/nodes/x", strings.NewReader(`{"title":"T"}`))
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	h.UpdateNode(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteNode(t *testing.T) {
	ws := &fakeWorkspace{}
	h := newNodesHandler(ws)

	req := httptest.NewRequest(http.MethodDelete, "/api/nodes/n1", nil)
	req.SetPathValue("id", "n1")
	rec := httptest.NewRecorder()
	h.DeleteNode(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(ws.deletedIDs) != 1 || ws.deletedIDs[0] != "n1" {
		t.Errorf("deleted = %v", ws.deletedIDs)
	}
}

func TestGetRevisions(t *testing.T) {
	ws := &fakeWorkspace{revisions: []models.Revision{{ID: "r1"}, {ID: "r2"}}}
	h := newNodesHandler(ws)

	req := httptest.NewRequest(http.MethodGet, "/api/nodes/n1/revisions", nil)
	req.SetPathValue("id", "n1")
	rec := httptest.NewRecorder()
	h.GetRevisions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d", resp.Count)
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", &domain.ConflictError{Message: "exists"}, http.StatusConflict},
		{"upstream 4xx", &domain.UpstreamError{Service: "zeus", Status: 429}, http.StatusTooManyRequests},
		{"upstream transport", &domain.UpstreamError{Service: "zeus", Status: 0}, http.StatusBadGateway},
		{"config", &domain.ConfigError{Message: "missing key"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

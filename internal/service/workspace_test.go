package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"atlas/internal/domain"
	"atlas/internal/domain/models"
	"atlas/internal/store"
)

type fakeNodeSource struct {
	nodes        map[string]*models.Node
	fetchErr     error
	createErr    error
	revisionErr  error
	deleteErr    error
	nextID       string
	savedNode    string
	savedContent string
	savedTitle   string
	deleted      []string
	revisions    []models.Revision
}

func (f *fakeNodeSource) FetchNodes(_ context.Context) (map[string]*models.Node, error) {
	return f.nodes, f.fetchErr
}

func (f *fakeNodeSource) CreateNode(_ context.Context, title, content string, parentID *string) (*models.Node, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Node{
		ID:       f.nextID,
		Title:    title,
		Content:  content,
		ParentID: parentID,
		Children: []string{},
	}, nil
}

func (f *fakeNodeSource) SaveRevision(_ context.Context, nodeID, content, title string) (string, error) {
	if f.revisionErr != nil {
		return "", f.revisionErr
	}
	f.savedNode = nodeID
	f.savedContent = content
	f.savedTitle = title
	return "rev-1", nil
}

func (f *fakeNodeSource) DeleteNode(_ context.Context, nodeID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, nodeID)
	return nil
}

func (f *fakeNodeSource) FetchRevisions(_ context.Context, _ string) ([]models.Revision, error) {
	return f.revisions, nil
}

func newWorkspace(source *fakeNodeSource) (*WorkspaceService, *store.Store) {
	st := store.New(nil, slog.Default())
	return NewWorkspaceService(source, st, slog.Default()), st
}

func TestLoadTree(t *testing.T) {
	source := &fakeNodeSource{nodes: map[string]*models.Node{
		"a": {ID: "a", Title: "A", Children: []string{}},
	}}
	svc, st := newWorkspace(source)

	nodes, err := svc.LoadTree(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if st.Node("a") == nil {
		t.Error("store not populated")
	}
}

func TestLoadTreeError(t *testing.T) {
	source := &fakeNodeSource{fetchErr: errors.New("zeus down")}
	svc, _ := newWorkspace(source)

	if _, err := svc.LoadTree(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateNode(t *testing.T) {
	t.Run("root node", func(t *testing.T) {
		source := &fakeNodeSource{nextID: "n1"}
		svc, st := newWorkspace(source)

		node, err := svc.CreateNode(context.Background(), &CreateNodeRequest{Title: "Notes"})
		if err != nil {
			t.Fatal(err)
		}
		if node.ID != "n1" {
			t.Errorf("id = %q", node.ID)
		}
		if len(st.RootIDs()) != 1 {
			t.Error("node should be a root")
		}
	})

	t.Run("missing title rejected", func(t *testing.T) {
		svc, _ := newWorkspace(&fakeNodeSource{})

		_, err := svc.CreateNode(context.Background(), &CreateNodeRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown parent rejected", func(t *testing.T) {
		svc, _ := newWorkspace(&fakeNodeSource{nextID: "n1"})

		parent := "ghost"
		_, err := svc.CreateNode(context.Background(), &CreateNodeRequest{Title: "X", ParentID: &parent})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("upstream failure leaves store untouched", func(t *testing.T) {
		source := &fakeNodeSource{createErr: errors.New("boom")}
		svc, st := newWorkspace(source)

		if _, err := svc.CreateNode(context.Background(), &CreateNodeRequest{Title: "X"}); err == nil {
			t.Fatal("expected error")
		}
		if len(st.Nodes()) != 0 {
			t.Error("failed create must not touch the store")
		}
	})
}

func TestUpdateNode(t *testing.T) {
	seed := func() (*WorkspaceService, *store.Store, *fakeNodeSource) {
		source := &fakeNodeSource{}
		svc, st := newWorkspace(source)
		st.AddNode(&models.Node{ID: "n1", Title: "Old", Content: "old body", Children: []string{}})
		return svc, st, source
	}

	t.Run("content change saves a revision", func(t *testing.T) {
		svc, _, source := seed()

		content := "new body"
		node, err := svc.UpdateNode(context.Background(), "n1", &UpdateNodeRequest{Content: &content})
		if err != nil {
			t.Fatal(err)
		}
		if node.Content != "new body" {
			t.Errorf("content = %q", node.Content)
		}
		if source.savedNode != "n1" || source.savedContent != "new body" {
			t.Errorf("revision not saved: %+v", source)
		}
		if source.savedTitle != "Old" {
			t.Errorf("revision title = %q, want current title", source.savedTitle)
		}
	})

	t.Run("title-only change skips revision", func(t *testing.T) {
		svc, st, source := seed()

		title := "New"
		if _, err := svc.UpdateNode(context.Background(), "n1", &UpdateNodeRequest{Title: &title}); err != nil {
			t.Fatal(err)
		}
		if source.savedNode != "" {
			t.Error("title change should not create a revision")
		}
		if st.Node("n1").Title != "New" {
			t.Error("title not updated")
		}
	})

	t.Run("unknown node", func(t *testing.T) {
		svc, _, _ := seed()

		title := "X"
		_, err := svc.UpdateNode(context.Background(), "missing", &UpdateNodeRequest{Title: &title})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("failed revision blocks the local update", func(t *testing.T) {
		svc, st, source := seed()
		source.revisionErr = errors.New("zeus down")

		content := "new body"
		if _, err := svc.UpdateNode(context.Background(), "n1", &UpdateNodeRequest{Content: &content}); err == nil {
			t.Fatal("expected error")
		}
		if st.Node("n1").Content != "old body" {
			t.Error("local node updated despite failed revision")
		}
	})
}

func TestDeleteNode(t *testing.T) {
	source := &fakeNodeSource{}
	svc, st := newWorkspace(source)
	parent := "p"
	st.AddNode(&models.Node{ID: "p", Title: "P", Children: []string{}})
	st.AddNode(&models.Node{ID: "c", Title: "C", ParentID: &parent, Children: []string{}})

	if err := svc.DeleteNode(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}

	// Upstream delete covers the named node only; descendants fall out
	// of the local tree immediately.
	if len(source.deleted) != 1 || source.deleted[0] != "p" {
		t.Errorf("deleted upstream: %v", source.deleted)
	}
	if st.Node("p") != nil || st.Node("c") != nil {
		t.Error("subtree should be gone locally")
	}

	if err := svc.DeleteNode(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRevisions(t *testing.T) {
	source := &fakeNodeSource{revisions: []models.Revision{{ID: "r1", NodeID: "n1"}}}
	svc, st := newWorkspace(source)
	st.AddNode(&models.Node{ID: "n1", Title: "N", Children: []string{}})

	revisions, err := svc.Revisions(context.Background(), "n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(revisions) != 1 || revisions[0].ID != "r1" {
		t.Fatalf("unexpected revisions %v", revisions)
	}
	if len(st.Revisions()) != 1 {
		t.Error("revisions not cached in store")
	}

	if _, err := svc.Revisions(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"atlas/internal/config"
	"atlas/internal/domain"
	"atlas/internal/domain/models"
	"atlas/internal/store"
)

// NodeSource is the persistence behind the document tree. In production
// this is the Zeus node store.
type NodeSource interface {
	FetchNodes(ctx context.Context) (map[string]*models.Node, error)
	CreateNode(ctx context.Context, title, content string, parentID *string) (*models.Node, error)
	SaveRevision(ctx context.Context, nodeID, content, title string) (string, error)
	DeleteNode(ctx context.Context, nodeID string) error
	FetchRevisions(ctx context.Context, nodeID string) ([]models.Revision, error)
}

// WorkspaceService keeps the in-memory tree and the node source in
// step: every mutation goes to the source first, then to the store, so
// a failed upstream write never leaves phantom local state.
type WorkspaceService struct {
	source NodeSource
	store  *store.Store
	logger *slog.Logger
}

// NewWorkspaceService creates the workspace orchestration layer.
func NewWorkspaceService(source NodeSource, st *store.Store, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		source: source,
		store:  st,
		logger: logger,
	}
}

// LoadTree rehydrates the full node map from the source and replaces
// the local tree with it.
func (s *WorkspaceService) LoadTree(ctx context.Context) (map[string]*models.Node, error) {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	nodes, err := s.source.FetchNodes(ctx)
	if err != nil {
		return nil, err
	}

	s.store.SetNodes(nodes)
	s.logger.Info("tree loaded", "nodes", len(nodes))
	return s.store.Nodes(), nil
}

// CreateNodeRequest is the payload for creating a tree node.
type CreateNodeRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

// Validate implements request validation.
func (r CreateNodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxNodeTitleLength)),
	)
}

// CreateNode persists a new node, then inserts it into the local tree.
func (s *WorkspaceService) CreateNode(ctx context.Context, req *CreateNodeRequest) (*models.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// A parent reference must point at a known node; the upstream store
	// would accept a dangling id and the tree would silently orphan it.
	if req.ParentID != nil && s.store.Node(*req.ParentID) == nil {
		return nil, fmt.Errorf("%w: parent node %s", domain.ErrNotFound, *req.ParentID)
	}

	node, err := s.source.CreateNode(ctx, req.Title, req.Content, req.ParentID)
	if err != nil {
		return nil, err
	}

	s.store.AddNode(node)
	s.logger.Info("node created", "id", node.ID, "title", node.Title)
	return s.store.Node(node.ID), nil
}

// UpdateNodeRequest is the payload for a partial node update.
type UpdateNodeRequest struct {
	Title    *string                `json:"title"`
	Content  *string                `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Validate implements request validation.
func (r UpdateNodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxNodeTitleLength)),
	)
}

// UpdateNode applies a partial update. A content change is captured as
// a new revision upstream before the local node is touched.
func (s *WorkspaceService) UpdateNode(ctx context.Context, id string, req *UpdateNodeRequest) (*models.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	node := s.store.Node(id)
	if node == nil {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}

	if req.Content != nil {
		title := node.Title
		if req.Title != nil {
			title = *req.Title
		}
		revisionID, err := s.source.SaveRevision(ctx, id, *req.Content, title)
		if err != nil {
			return nil, err
		}
		s.logger.Info("revision saved", "node", id, "revision", revisionID)
	}

	s.store.UpdateNode(id, store.NodeUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	return s.store.Node(id), nil
}

// DeleteNode removes a node upstream, then prunes its subtree locally.
// Descendant node memories stay upstream until their own delete; the
// next full rehydration drops them from the tree as orphans.
func (s *WorkspaceService) DeleteNode(ctx context.Context, id string) error {
	if s.store.Node(id) == nil {
		return fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}

	if err := s.source.DeleteNode(ctx, id); err != nil {
		return err
	}

	s.store.DeleteNode(id)
	s.logger.Info("node deleted", "id", id)
	return nil
}

// Revisions fetches the revision history for a node and caches it in
// the store for the history view.
func (s *WorkspaceService) Revisions(ctx context.Context, nodeID string) ([]models.Revision, error) {
	if s.store.Node(nodeID) == nil {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNotFound, nodeID)
	}

	revisions, err := s.source.FetchRevisions(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	s.store.SetRevisions(revisions)
	return revisions, nil
}

package zeus

import (
	"context"
	"time"

	"atlas/internal/config"
	"atlas/internal/domain/models"
)

// Memory metadata type tags. A node lives as one "atlas-node" memory;
// every content edit is appended as a separate "atlas-revision" memory
// rather than mutating the node memory in place. Revision retention is
// Zeus's concern.
const (
	typeNode     = "atlas-node"
	typeRevision = "atlas-revision"

	// sourceTag marks memories written by this service.
	sourceTag = "atlas"
)

// NodeStore maps between Zeus memories and workspace tree nodes.
type NodeStore struct {
	client *Client
}

// NewNodeStore wraps a Zeus client with node semantics.
func NewNodeStore(client *Client) *NodeStore {
	return &NodeStore{client: client}
}

// FetchNodes retrieves every atlas-node memory and rebuilds the node map.
// Parent/child relationships come from memory metadata; the store layer
// recomputes root IDs from ParentID.
func (s *NodeStore) FetchNodes(ctx context.Context) (map[string]*models.Node, error) {
	resp, err := s.client.Search(ctx, &SearchRequest{
		Query:          typeNode,
		Limit:          config.NodeFetchLimit,
		MetadataFilter: map[string]interface{}{"type": typeNode},
	})
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*models.Node, len(resp.Results))
	for _, memory := range resp.Results {
		nodes[memory.MemoryID] = nodeFromMemory(memory)
	}
	return nodes, nil
}

// CreateNode stores a new atlas-node memory and returns the node with its
// Zeus-assigned ID. Children always start empty.
func (s *NodeStore) CreateNode(ctx context.Context, title, content string, parentID *string) (*models.Node, error) {
	metadata := map[string]interface{}{
		"type":     typeNode,
		"title":    title,
		"children": []string{},
	}
	if parentID != nil {
		metadata["parentId"] = *parentID
	}

	resp, err := s.client.Store(ctx, &StoreRequest{
		Content:  content,
		Source:   sourceTag,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	createdAt := parseTimestamp(resp.CreatedAt)
	return &models.Node{
		ID:        resp.MemoryID,
		Title:     title,
		Content:   content,
		ParentID:  parentID,
		Children:  []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// SaveRevision appends an atlas-revision memory capturing the new content
// of a node. The node memory itself is never rewritten.
func (s *NodeStore) SaveRevision(ctx context.Context, nodeID, content, title string) (string, error) {
	resp, err := s.client.Store(ctx, &StoreRequest{
		Content: content,
		Source:  sourceTag,
		Metadata: map[string]interface{}{
			"type":      typeRevision,
			"nodeId":    nodeID,
			"title":     title,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", err
	}
	return resp.MemoryID, nil
}

// DeleteNode removes the node memory. Descendant cleanup happens in the
// workspace store; revisions are retained upstream.
func (s *NodeStore) DeleteNode(ctx context.Context, nodeID string) error {
	return s.client.Delete(ctx, nodeID)
}

// FetchRevisions lists the stored revisions for a node, most relevant first
// (Zeus ranking order is preserved as returned).
func (s *NodeStore) FetchRevisions(ctx context.Context, nodeID string) ([]models.Revision, error) {
	resp, err := s.client.Search(ctx, &SearchRequest{
		Query: typeRevision + " nodeId:" + nodeID,
		Limit: config.RevisionFetchLimit,
		MetadataFilter: map[string]interface{}{
			"type":   typeRevision,
			"nodeId": nodeID,
		},
	})
	if err != nil {
		return nil, err
	}

	revisions := make([]models.Revision, 0, len(resp.Results))
	for _, memory := range resp.Results {
		rev := models.Revision{
			ID:        memory.MemoryID,
			NodeID:    nodeID,
			Content:   memory.Content,
			CreatedAt: parseTimestamp(memory.CreatedAt),
			CreatedBy: "user",
		}
		if msg, ok := memory.Metadata["message"].(string); ok {
			rev.Message = msg
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}

// nodeFromMemory rebuilds a tree node from memory metadata. Missing
// fields degrade to defaults ("Untitled", root placement) rather than
// dropping the node.
func nodeFromMemory(memory Memory) *models.Node {
	node := &models.Node{
		ID:        memory.MemoryID,
		Title:     "Untitled",
		Content:   memory.Content,
		Children:  []string{},
		CreatedAt: parseTimestamp(memory.CreatedAt),
		Metadata:  memory.Metadata,
	}
	node.UpdatedAt = node.CreatedAt

	if title, ok := memory.Metadata["title"].(string); ok && title != "" {
		node.Title = title
	}
	if parent, ok := memory.Metadata["parentId"].(string); ok && parent != "" {
		node.ParentID = &parent
	}
	if raw, ok := memory.Metadata["children"].([]interface{}); ok {
		for _, entry := range raw {
			if id, ok := entry.(string); ok {
				node.Children = append(node.Children, id)
			}
		}
	}

	return node
}

// parseTimestamp tolerates malformed upstream timestamps; the zero time
// is preferable to losing the record.
func parseTimestamp(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999", value); err == nil {
		return t
	}
	return time.Time{}
}

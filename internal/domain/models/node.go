package models

import (
	"time"
)

// Node is a document in the workspace tree, mirrored from a Zeus memory
// tagged "atlas-node". IDs are assigned by Zeus on create.
type Node struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"` // Markdown content
	ParentID  *string                `json:"parentId"` // nil = root
	Children  []string               `json:"children"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns a deep copy safe to hand out across the store boundary.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = append([]string(nil), n.Children...)
	if n.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Revision is an immutable snapshot of a node's content. Revisions are
// stored in Zeus as separate "atlas-revision" memories and never mutated
// or deleted by this service.
type Revision struct {
	ID        string    `json:"id"`
	NodeID    string    `json:"nodeId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	Message   string    `json:"message,omitempty"`
}

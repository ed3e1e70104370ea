package store

import (
	"strings"
	"time"

	"atlas/internal/domain/models"
)

// SetNodes replaces the entire node map and recomputes the root-id list
// from nodes with no parent. No merge: stale local state is discarded.
func (s *Store) SetNodes(nodes map[string]*models.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]*models.Node, len(nodes))
	s.rootIDs = []string{}
	for id, node := range nodes {
		s.nodes[id] = node.Clone()
		if node.ParentID == nil {
			s.rootIDs = append(s.rootIDs, id)
		}
	}
}

// AddNode inserts a node into the tree. A node with a parent is appended
// to that parent's children; if the parent id is absent from the map the
// parent link is silently skipped and the node sits in the map as an
// orphan. A parentless node joins the root list.
func (s *Store) AddNode(node *models.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[node.ID] = node.Clone()

	if node.ParentID == nil {
		s.rootIDs = append(s.rootIDs, node.ID)
		return
	}
	if parent, ok := s.nodes[*node.ParentID]; ok {
		parent.Children = append(parent.Children, node.ID)
	}
}

// NodeUpdate carries the partial fields of an update; nil fields are
// left untouched.
type NodeUpdate struct {
	Title    *string
	Content  *string
	Metadata map[string]interface{}
}

// UpdateNode merges partial fields into an existing node and refreshes
// UpdatedAt. Unknown ids are a no-op.
func (s *Store) UpdateNode(id string, update NodeUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return
	}

	if update.Title != nil {
		node.Title = *update.Title
	}
	if update.Content != nil {
		node.Content = *update.Content
	}
	if update.Metadata != nil {
		node.Metadata = update.Metadata
	}
	node.UpdatedAt = time.Now().UTC()
}

// DeleteNode removes a node and its entire subtree. The node is unlinked
// from its parent's children, every transitive descendant is deleted,
// and selection is cleared if it pointed into the deleted subtree. There
// is no detach-and-keep: descendants go unconditionally.
func (s *Store) DeleteNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return
	}

	doomed := make(map[string]bool)
	s.collectSubtree(id, doomed)

	if node.ParentID != nil {
		if parent, ok := s.nodes[*node.ParentID]; ok {
			parent.Children = removeID(parent.Children, id)
		}
	}

	for victim := range doomed {
		delete(s.nodes, victim)
	}

	kept := s.rootIDs[:0]
	for _, rootID := range s.rootIDs {
		if !doomed[rootID] {
			kept = append(kept, rootID)
		}
	}
	s.rootIDs = kept

	if doomed[s.selectedNodeID] {
		s.selectedNodeID = ""
	}
}

// collectSubtree marks id and all ids reachable through children links.
func (s *Store) collectSubtree(id string, doomed map[string]bool) {
	if doomed[id] {
		return
	}
	doomed[id] = true

	node, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, childID := range node.Children {
		s.collectSubtree(childID, doomed)
	}
}

// SelectNode changes the selected node, resets the draft buffer to that
// node's current content, exits edit mode, and closes the history view.
// Selecting a node clears any remote-file selection; "" clears node
// selection entirely.
func (s *Store) SelectNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedNodeID = id
	s.selectedPath = ""
	s.draftContent = ""
	if node, ok := s.nodes[id]; ok {
		s.draftContent = node.Content
	}
	s.editMode = false
	s.showHistory = false
	s.compareRevisionID = ""
}

// ToggleExpanded flips a node's expansion state in the tree pane.
func (s *Store) ToggleExpanded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expandedIDs[id] {
		delete(s.expandedIDs, id)
	} else {
		s.expandedIDs[id] = true
	}
}

// SetSearchQuery updates the tree filter query.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SetLoading flags a tree rehydration in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Node returns a copy of the node with the given id, or nil.
func (s *Store) Node(id string) *models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if node, ok := s.nodes[id]; ok {
		return node.Clone()
	}
	return nil
}

// Nodes returns a copy of the full node map.
func (s *Store) Nodes() map[string]*models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make(map[string]*models.Node, len(s.nodes))
	for id, node := range s.nodes {
		nodes[id] = node.Clone()
	}
	return nodes
}

// RootIDs returns a copy of the root-id list.
func (s *Store) RootIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.rootIDs...)
}

// SelectedNode returns a copy of the selected node, or nil if nothing is
// selected.
func (s *Store) SelectedNode() *models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if node, ok := s.nodes[s.selectedNodeID]; ok {
		return node.Clone()
	}
	return nil
}

// FilteredNodes returns nodes matching the current search query by
// case-insensitive title or content substring. An empty query matches
// everything.
func (s *Store) FilteredNodes() []*models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(s.searchQuery)
	matches := make([]*models.Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		if query == "" ||
			strings.Contains(strings.ToLower(node.Title), query) ||
			strings.Contains(strings.ToLower(node.Content), query) {
			matches = append(matches, node.Clone())
		}
	}
	return matches
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func containsPath(paths []string, path string) bool {
	for _, candidate := range paths {
		if candidate == path {
			return true
		}
	}
	return false
}

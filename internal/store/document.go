package store

import (
	"atlas/internal/domain/models"
)

// SetEditMode toggles between viewing and editing the selected document.
func (s *Store) SetEditMode(editMode bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editMode = editMode
}

// EditMode reports whether the editor is in edit mode.
func (s *Store) EditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editMode
}

// SetDraftContent replaces the draft buffer.
func (s *Store) SetDraftContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftContent = content
}

// DraftContent returns the current draft buffer.
func (s *Store) DraftContent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draftContent
}

// SetRevisions replaces the revision list for the selected node.
func (s *Store) SetRevisions(revisions []models.Revision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revisions = append([]models.Revision(nil), revisions...)
}

// Revisions returns a copy of the loaded revision list.
func (s *Store) Revisions() []models.Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Revision(nil), s.revisions...)
}

// ToggleHistory shows or hides the revision history view.
func (s *Store) ToggleHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showHistory = !s.showHistory
}

// SetCompareRevision selects a revision for side-by-side comparison;
// "" clears the comparison.
func (s *Store) SetCompareRevision(revisionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compareRevisionID = revisionID
}

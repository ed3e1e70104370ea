package store

import (
	"context"
	"sort"
	"strings"

	"atlas/internal/domain/models"
)

// LoadFolder lists a remote directory and merges the result into the
// mirrored file tree. The fetch happens outside the lock; a second call
// for the same path while one is in flight is a no-op. Previously
// loaded subdirectory state is preserved across the merge.
func (s *Store) LoadFolder(ctx context.Context, path string) error {
	path = models.NormalizePath(path)

	s.mu.Lock()
	if s.loadingPaths[path] {
		s.mu.Unlock()
		return nil
	}
	s.loadingPaths[path] = true
	s.mu.Unlock()

	items, err := s.source.List(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loadingPaths, path)

	if err != nil {
		s.logger.Error("failed to list folder", "path", path, "error", err)
		return err
	}

	s.mergeListing(path, items, false)
	return nil
}

// RefreshFolder re-lists a directory, replacing its children outright
// so remotely deleted entries disappear from the tree.
func (s *Store) RefreshFolder(ctx context.Context, path string) error {
	path = models.NormalizePath(path)

	s.mu.Lock()
	if s.loadingPaths[path] {
		s.mu.Unlock()
		return nil
	}
	s.loadingPaths[path] = true
	s.mu.Unlock()

	items, err := s.source.List(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loadingPaths, path)

	if err != nil {
		s.logger.Error("failed to refresh folder", "path", path, "error", err)
		return err
	}

	s.mergeListing(path, items, true)
	return nil
}

// mergeListing folds a directory listing into the item map. Entries are
// keyed by normalized path, last write wins. When replace is false the
// existing children of directories already loaded are kept; when true
// the listed directory's child list is rebuilt from scratch.
func (s *Store) mergeListing(dir string, items []models.TreeItem, replace bool) {
	childPaths := make([]string, 0, len(items))
	for i := range items {
		item := items[i]
		item.Path = models.NormalizePath(item.Path)

		if existing, ok := s.items[item.Path]; ok && !replace {
			item.Children = existing.Children
			item.IsLoaded = existing.IsLoaded
		}
		if item.Children == nil {
			item.Children = []string{}
		}

		s.items[item.Path] = &item
		childPaths = append(childPaths, item.Path)
	}

	if dir == "/" || dir == "" {
		s.rootPaths = childPaths
		return
	}

	parent, ok := s.items[dir]
	if !ok {
		parent = &models.TreeItem{
			Path: dir,
			Name: lastName(dir),
			Type: models.ItemTypeDirectory,
		}
		s.items[dir] = parent
	}
	parent.Children = childPaths
	parent.IsLoaded = true
}

// LoadFile fetches a file body and caches it by path. Duplicate fetches
// for a path already in flight are suppressed.
func (s *Store) LoadFile(ctx context.Context, path string) (*models.FileContent, error) {
	path = models.NormalizePath(path)

	s.mu.Lock()
	if s.loadingPaths[path] {
		s.mu.Unlock()
		return nil, nil
	}
	s.loadingPaths[path] = true
	s.mu.Unlock()

	content, err := s.source.ReadFile(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loadingPaths, path)

	if err != nil {
		s.logger.Error("failed to load file", "path", path, "error", err)
		return nil, err
	}

	s.fileContent[path] = content.Content
	return content, nil
}

// SaveFile writes a file body to the remote source, then updates the
// local cache. A failed write leaves the cache untouched; there is no
// rollback because nothing was changed yet.
func (s *Store) SaveFile(ctx context.Context, path, content string) error {
	path = models.NormalizePath(path)

	if err := s.source.WriteFile(ctx, path, content); err != nil {
		s.logger.Error("failed to save file", "path", path, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileContent[path] = content
	return nil
}

// CreateFile creates an empty remote file and registers it in the tree.
func (s *Store) CreateFile(ctx context.Context, path string) error {
	path = models.NormalizePath(path)

	if err := s.source.WriteFile(ctx, path, ""); err != nil {
		s.logger.Error("failed to create file", "path", path, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[path] = &models.TreeItem{
		Path:     path,
		Name:     lastName(path),
		Type:     models.ItemTypeFile,
		Children: []string{},
	}
	s.fileContent[path] = ""
	s.attachToParent(path)
	return nil
}

// CreateFolder creates a remote directory and registers it in the tree.
func (s *Store) CreateFolder(ctx context.Context, path string) error {
	path = models.NormalizePath(path)

	if err := s.source.Mkdir(ctx, path); err != nil {
		s.logger.Error("failed to create folder", "path", path, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[path] = &models.TreeItem{
		Path:     path,
		Name:     lastName(path),
		Type:     models.ItemTypeDirectory,
		Children: []string{},
		IsLoaded: true,
	}
	s.attachToParent(path)
	return nil
}

// Delete removes a remote file or directory, then prunes it and any
// cached descendants from the local tree.
func (s *Store) Delete(ctx context.Context, path string) error {
	path = models.NormalizePath(path)

	if err := s.source.Remove(ctx, path); err != nil {
		s.logger.Error("failed to delete entry", "path", path, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, path)
	delete(s.fileContent, path)
	prefix := path + "/"
	for p := range s.items {
		if strings.HasPrefix(p, prefix) {
			delete(s.items, p)
			delete(s.fileContent, p)
		}
	}

	dir := parentDir(path)
	if dir == "/" || dir == "" {
		s.rootPaths = removeID(s.rootPaths, path)
	} else if parent, ok := s.items[dir]; ok {
		parent.Children = removeID(parent.Children, path)
	}

	if s.selectedPath == path || strings.HasPrefix(s.selectedPath, prefix) {
		s.selectedPath = ""
	}
	return nil
}

// attachToParent links a new path into its parent's child list when the
// parent is present, keeping directories first and names sorted. Roots
// go into the root list.
func (s *Store) attachToParent(path string) {
	dir := parentDir(path)

	if dir == "/" || dir == "" {
		if !containsPath(s.rootPaths, path) {
			s.rootPaths = append(s.rootPaths, path)
			s.sortChildPaths(s.rootPaths)
		}
		return
	}

	parent, ok := s.items[dir]
	if !ok {
		return
	}
	if !containsPath(parent.Children, path) {
		parent.Children = append(parent.Children, path)
		s.sortChildPaths(parent.Children)
	}
}

// sortChildPaths orders sibling paths directories-first, then by name.
func (s *Store) sortChildPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := s.items[paths[i]], s.items[paths[j]]
		if a == nil || b == nil {
			return paths[i] < paths[j]
		}
		if a.Type != b.Type {
			return a.Type == models.ItemTypeDirectory
		}
		return a.Name < b.Name
	})
}

// SelectFile changes the selected remote file and clears any node
// selection; the two selections are mutually exclusive.
func (s *Store) SelectFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedPath = models.NormalizePath(path)
	s.selectedNodeID = ""
	s.editMode = false
	s.showHistory = false
	s.compareRevisionID = ""
}

// Item returns a copy of the tree item at the given path, or nil.
func (s *Store) Item(path string) *models.TreeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[models.NormalizePath(path)]
	if !ok {
		return nil
	}
	clone := *item
	clone.Children = append([]string(nil), item.Children...)
	return &clone
}

// RootPaths returns a copy of the top-level path list.
func (s *Store) RootPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.rootPaths...)
}

// CachedFileContent returns a cached file body and whether one exists.
func (s *Store) CachedFileContent(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.fileContent[models.NormalizePath(path)]
	return content, ok
}

// SelectedPath returns the selected remote file path, "" if none.
func (s *Store) SelectedPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedPath
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			if i == 0 {
				return "/"
			}
			return path[:i]
		}
	}
	return ""
}

func lastName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

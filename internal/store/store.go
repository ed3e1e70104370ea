package store

import (
	"context"
	"log/slog"
	"sync"

	"atlas/internal/domain/models"
)

// Store is the single source of truth for workspace state: the document
// tree mirrored from Zeus, the remote file tree mirrored from Nextcloud,
// document/draft state, and the agent transcript. It is not persisted;
// it rehydrates from the external services.
//
// All mutators hold the store mutex, so invariants are enforced in one
// place and concurrent handlers cannot interleave partial updates.
// Overlapping remote operations on the same path still race on
// last-write-wins; the per-path loading flags suppress duplicate
// triggers, they do not order writers.
type Store struct {
	mu sync.RWMutex

	// Tree state
	nodes          map[string]*models.Node
	rootIDs        []string
	selectedNodeID string // "" = none
	expandedIDs    map[string]bool
	searchQuery    string
	loading        bool

	// Document state
	editMode          bool
	draftContent      string
	revisions         []models.Revision
	showHistory       bool
	compareRevisionID string

	// Remote file state
	items        map[string]*models.TreeItem // keyed by normalized path
	rootPaths    []string                    // children of "/"
	selectedPath string                      // "" = none
	fileContent  map[string]string           // fetched file bodies by path
	loadingPaths map[string]bool

	// Agent state
	agentOpen       bool
	agentProcessing bool
	agentMessages   []models.AgentMessage

	source FileSource
	logger *slog.Logger
}

// FileSource is the remote filesystem behind the mirrored file tree.
type FileSource interface {
	List(ctx context.Context, path string) ([]models.TreeItem, error)
	ReadFile(ctx context.Context, path string) (*models.FileContent, error)
	WriteFile(ctx context.Context, path, content string) error
	Mkdir(ctx context.Context, path string) error
	Remove(ctx context.Context, path string) error
}

// New creates an empty workspace store backed by the given file source.
func New(source FileSource, logger *slog.Logger) *Store {
	return &Store{
		nodes:        make(map[string]*models.Node),
		rootIDs:      []string{},
		expandedIDs:  make(map[string]bool),
		items:        make(map[string]*models.TreeItem),
		rootPaths:    []string{},
		fileContent:  make(map[string]string),
		loadingPaths: make(map[string]bool),
		agentOpen:    true,
		source:       source,
		logger:       logger,
	}
}

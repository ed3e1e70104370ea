package tools

import (
	"context"
	"errors"
	"strings"

	"atlas/internal/zeus"
)

// MemoryStorer is the slice of the Zeus client the store tool needs.
type MemoryStorer interface {
	Store(ctx context.Context, req *zeus.StoreRequest) (*zeus.StoreResponse, error)
}

// defaultAgentSource tags memories the assistant stores on its own
// initiative; the model may override it per call.
const defaultAgentSource = "atlas-agent"

// MemoryStoreTool implements the 'store_memory' tool: persist a new
// memory on the user's behalf.
type MemoryStoreTool struct {
	storer MemoryStorer
}

// NewMemoryStoreTool creates a store_memory executor backed by Zeus.
func NewMemoryStoreTool(storer MemoryStorer) *MemoryStoreTool {
	return &MemoryStoreTool{storer: storer}
}

// Definition returns the tool schema advertised to the model.
func (t *MemoryStoreTool) Definition() Definition {
	return Definition{
		Name:        "store_memory",
		Description: "Store a new memory for the user. Use this when the user shares information worth remembering across sessions.",
		Properties: map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "The memory content to store",
			},
			"source": map[string]interface{}{
				"type":        "string",
				"description": "Optional source tag for the memory",
			},
			"metadata": map[string]interface{}{
				"type":        "object",
				"description": "Optional metadata to attach",
			},
		},
		Required: []string{"content"},
	}
}

// Execute implements Executor.
// Input parameters:
//   - content (string, required): the memory text
//   - source (string, optional): source tag, defaults to "atlas-agent"
//   - metadata (object, optional): arbitrary metadata
func (t *MemoryStoreTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	content, ok := input["content"].(string)
	if !ok || strings.TrimSpace(content) == "" {
		return nil, errors.New("missing required parameter: content (string)")
	}

	source := defaultAgentSource
	if raw, ok := input["source"].(string); ok && strings.TrimSpace(raw) != "" {
		source = strings.TrimSpace(raw)
	}

	var metadata map[string]interface{}
	if raw, exists := input["metadata"]; exists {
		metadata, _ = raw.(map[string]interface{})
	}

	resp, err := t.storer.Store(ctx, &zeus.StoreRequest{
		Content:  content,
		Source:   source,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"memory_id":  resp.MemoryID,
		"created_at": resp.CreatedAt,
	}, nil
}

package tools

import (
	"context"
	"errors"
	"strings"

	"atlas/internal/config"
	"atlas/internal/zeus"
)

// MemorySearcher is the slice of the Zeus client the search tool needs.
type MemorySearcher interface {
	Search(ctx context.Context, req *zeus.SearchRequest) (*zeus.SearchResponse, error)
}

// MemorySearchTool implements the 'search_memory' tool: ranked search
// across all stored memories, documents included.
type MemorySearchTool struct {
	searcher MemorySearcher
}

// NewMemorySearchTool creates a search_memory executor backed by Zeus.
func NewMemorySearchTool(searcher MemorySearcher) *MemorySearchTool {
	return &MemorySearchTool{searcher: searcher}
}

// Definition returns the tool schema advertised to the model.
func (t *MemorySearchTool) Definition() Definition {
	return Definition{
		Name:        "search_memory",
		Description: "Search the user's stored memories and documents by semantic relevance. Returns the most relevant entries with a content preview.",
		Properties: map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "What to search for",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of results to return",
			},
		},
		Required: []string{"query"},
	}
}

// Execute implements Executor.
// Input parameters:
//   - query (string, required): search query
//   - limit (number, optional): max results, defaults to 5
func (t *MemorySearchTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	query, ok := input["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, errors.New("missing required parameter: query (string)")
	}

	limit := config.DefaultSearchLimit
	if raw, exists := input["limit"]; exists {
		if n, ok := raw.(float64); ok && n > 0 {
			limit = int(n)
		}
	}

	resp, err := t.searcher.Search(ctx, &zeus.SearchRequest{
		Query: strings.TrimSpace(query),
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, len(resp.Results))
	for i, memory := range resp.Results {
		preview := memory.Content
		if len(preview) > config.MemoryPreviewChars {
			preview = preview[:config.MemoryPreviewChars] + "..."
		}

		results[i] = map[string]interface{}{
			"memory_id":  memory.MemoryID,
			"content":    preview,
			"source":     memory.Source,
			"created_at": memory.CreatedAt,
		}
	}

	return map[string]interface{}{
		"results": results,
		"count":   resp.Count,
	}, nil
}

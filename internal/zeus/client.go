package zeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"atlas/internal/domain"
)

const (
	// DefaultTimeout is the HTTP timeout for Zeus requests.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Zeus memory/search service. All requests carry the
// service API key in the X-API-Key header; the key never leaves the server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Zeus client for the given endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithHTTPClient creates a Zeus client with a custom HTTP client.
func NewClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Memory is a single stored record as Zeus returns it.
type Memory struct {
	MemoryID  string                 `json:"memory_id"`
	Content   string                 `json:"content"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt string                 `json:"created_at"`
}

// SearchRequest is the payload for POST /api/search.
type SearchRequest struct {
	Query          string                 `json:"query"`
	Limit          int                    `json:"limit,omitempty"`
	MetadataFilter map[string]interface{} `json:"metadata_filter,omitempty"`
}

// SearchResponse is the result set for a search.
type SearchResponse struct {
	Results []Memory `json:"results"`
	Count   int      `json:"count"`
}

// StoreRequest is the payload for POST /api/store.
type StoreRequest struct {
	Content  string                 `json:"content"`
	Source   string                 `json:"source"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// StoreResponse identifies the newly created memory.
type StoreResponse struct {
	MemoryID  string `json:"memory_id"`
	CreatedAt string `json:"created_at"`
}

// Search runs a ranked search over stored memories.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/api/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Store creates a new memory and returns its assigned ID.
func (c *Client) Store(ctx context.Context, req *StoreRequest) (*StoreResponse, error) {
	var resp StoreResponse
	if err := c.post(ctx, "/api/store", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a memory by ID.
func (c *Client) Delete(ctx context.Context, memoryID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/memory/"+memoryID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return upstreamError(resp.StatusCode, body)
	}

	return nil
}

// post sends a JSON body and decodes a JSON response.
func (c *Client) post(ctx context.Context, path string, payload, dest interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func upstreamError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &domain.UpstreamError{Service: "zeus", Status: status, Message: msg}
}

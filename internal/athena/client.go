package athena

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"atlas/internal/config"
	"atlas/internal/domain"
	"atlas/internal/domain/models"
)

const (
	// DefaultTimeout is the HTTP timeout for Athena requests.
	DefaultTimeout = 30 * time.Second
)

// Client queries the Athena knowledge-graph service. The graph exposes
// Zeus memories at three zoom levels (domain clusters, topic clusters,
// individual memories); Atlas consumes it strictly read-only.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Athena client for the given endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Overview returns all domain-level clusters for the zoomed-out view.
func (c *Client) Overview(ctx context.Context) (*models.GraphOverview, error) {
	var overview models.GraphOverview
	if err := c.get(ctx, "/api/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ClusterDetail returns the topic clusters inside one domain cluster.
func (c *Client) ClusterDetail(ctx context.Context, clusterID string) (*models.ClusterDetail, error) {
	var detail models.ClusterDetail
	if err := c.get(ctx, "/api/l2/"+url.PathEscape(clusterID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ClusterMemories returns one page of memories inside a topic cluster.
func (c *Client) ClusterMemories(ctx context.Context, clusterID string, limit, offset int) (*models.ClusterMemories, error) {
	if limit <= 0 {
		limit = config.DefaultGraphPageSize
	}
	if offset < 0 {
		offset = 0
	}

	path := "/api/l1/" + url.PathEscape(clusterID) +
		"?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)

	var memories models.ClusterMemories
	if err := c.get(ctx, path, &memories); err != nil {
		return nil, err
	}
	return &memories, nil
}

// MemoryDetail returns the full record for a single memory.
func (c *Client) MemoryDetail(ctx context.Context, memoryID string) (*models.MemoryDetail, error) {
	var detail models.MemoryDetail
	if err := c.get(ctx, "/api/memory/"+url.PathEscape(memoryID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Stats reports what the graph service currently has loaded.
func (c *Client) Stats(ctx context.Context) (*models.GraphStats, error) {
	var stats models.GraphStats
	if err := c.get(ctx, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Search runs a free-text search across graph memories.
func (c *Client) Search(ctx context.Context, query string, limit int) (*models.GraphSearchResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	path := "/api/search?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)

	var resp models.GraphSearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return &domain.UpstreamError{Service: "athena", Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

package nextcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"atlas/internal/domain"
	"atlas/internal/domain/models"
)

const (
	// DefaultTimeout is the HTTP timeout for WebDAV requests.
	DefaultTimeout = 30 * time.Second
)

// Client talks WebDAV to the Nextcloud file host. Credentials are held
// server-side only and sent as HTTP Basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a WebDAV client for the given Nextcloud instance.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client.
func NewClientWithHTTPClient(baseURL, username, password string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
	}
}

// Configured reports whether service credentials are present.
func (c *Client) Configured() bool {
	return c.username != "" && c.password != ""
}

// fileURL builds the full WebDAV URL for a user-relative path. Each path
// segment is escaped individually so "/" separators survive.
func (c *Client) fileURL(path string) string {
	escaped := make([]string, 0, 8)
	for _, segment := range strings.Split(path, "/") {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return c.baseURL + "/remote.php/dav/files/" + url.PathEscape(c.username) + strings.Join(escaped, "/")
}

// List fetches the immediate children of a directory via PROPFIND with
// Depth 1. The directory itself is filtered out; results are sorted
// directories first, then by name.
func (c *Client) List(ctx context.Context, path string) ([]models.TreeItem, error) {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", c.fileURL(path), strings.NewReader(propfindBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Depth", "1")
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("directory %s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusMultiStatus && resp.StatusCode != http.StatusOK {
		return nil, c.upstreamError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	entries, err := parseMultistatus(body)
	if err != nil {
		return nil, err
	}

	requested := models.NormalizePath(path)
	items := make([]models.TreeItem, 0, len(entries))
	for _, entry := range entries {
		itemPath := models.NormalizePath(relativePath(entry.Href))
		if itemPath == requested {
			// PROPFIND echoes the requested directory itself.
			continue
		}

		itemType := models.ItemTypeFile
		if entry.IsCollection {
			itemType = models.ItemTypeDirectory
		}

		items = append(items, models.TreeItem{
			Path:         itemPath,
			Name:         entry.Name,
			Type:         itemType,
			Size:         entry.Size,
			LastModified: entry.LastModified,
			MimeType:     entry.ContentType,
			ETag:         entry.ETag,
			Children:     []string{},
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Type != items[j].Type {
			return items[i].Type == models.ItemTypeDirectory
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

// ReadFile fetches a file's content and metadata via GET.
func (c *Client) ReadFile(ctx context.Context, path string) (*models.FileContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fileURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.upstreamError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	size := int64(len(body))
	if header := resp.Header.Get("Content-Length"); header != "" {
		if parsed, err := strconv.ParseInt(header, 10, 64); err == nil {
			size = parsed
		}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "text/plain"
	}

	return &models.FileContent{
		Path:         models.NormalizePath(path),
		Content:      string(body),
		MimeType:     mimeType,
		Size:         size,
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

// WriteFile stores content at path via PUT, creating or overwriting.
func (c *Client) WriteFile(ctx context.Context, path, content string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.fileURL(path), strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.upstreamError(resp)
	}
	return nil
}

// Mkdir creates a directory via MKCOL. An existing directory surfaces as
// a conflict (Nextcloud answers MKCOL on an existing collection with 405).
func (c *Client) Mkdir(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "MKCOL", c.fileURL(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		return &domain.ConflictError{Message: "directory already exists"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.upstreamError(resp)
	}
	return nil
}

// Remove deletes a file or directory (recursively, per WebDAV semantics).
func (c *Client) Remove(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.fileURL(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("item %s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.upstreamError(resp)
	}
	return nil
}

func (c *Client) upstreamError(resp *http.Response) error {
	return &domain.UpstreamError{
		Service: "nextcloud",
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("WebDAV error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

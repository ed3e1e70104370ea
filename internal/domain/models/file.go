package models

import (
	"strings"
)

// Remote file-tree item types.
const (
	ItemTypeFile      = "file"
	ItemTypeDirectory = "directory"
)

// TreeItem mirrors a single entry of the remote Nextcloud filesystem.
// The normalized path doubles as the item's identity; there is no
// uniqueness constraint beyond last-write-wins on the path key.
type TreeItem struct {
	Path         string   `json:"path"` // normalized, no trailing slash
	Name         string   `json:"name"`
	Type         string   `json:"type"` // "file" or "directory"
	Size         int64    `json:"size"`
	LastModified string   `json:"lastModified"`
	MimeType     string   `json:"mimeType,omitempty"`
	ETag         string   `json:"etag,omitempty"`
	Children     []string `json:"children"` // child paths, valid once IsLoaded
	IsLoaded     bool     `json:"isLoaded"` // distinguishes "not fetched" from "fetched and empty"
}

// FileContent is the payload of a remote file read.
type FileContent struct {
	Path         string `json:"path"`
	Content      string `json:"content"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
}

// NormalizePath strips any trailing slash so directory and file paths
// share one key space. Normalization is idempotent. The root path "/"
// is preserved as-is.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return path
	}
	return strings.TrimRight(path, "/")
}

// textExtensions and textMimePrefixes drive IsTextItem.
var textExtensions = map[string]bool{
	".md": true, ".txt": true, ".json": true, ".yaml": true, ".yml": true,
	".xml": true, ".html": true, ".css": true, ".js": true, ".ts": true,
	".py": true, ".sh": true, ".go": true,
}

var textMimePrefixes = []string{
	"text/", "application/json", "application/xml", "application/javascript",
}

// IsTextItem reports whether the item is editable as text, by extension
// first and MIME type as a fallback.
func IsTextItem(item TreeItem) bool {
	if item.Type == ItemTypeDirectory {
		return false
	}
	if idx := strings.LastIndex(item.Name, "."); idx >= 0 {
		if textExtensions[strings.ToLower(item.Name[idx:])] {
			return true
		}
	}
	for _, prefix := range textMimePrefixes {
		if strings.HasPrefix(item.MimeType, prefix) {
			return true
		}
	}
	return false
}

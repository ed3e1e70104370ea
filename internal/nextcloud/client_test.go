package nextcloud

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas/internal/domain"
)

const listingXML = `<?xml version="1.0"?>
<d:multistatus xmlns:d="DAV:" xmlns:s="http://sabredav.org/ns" xmlns:oc="http://owncloud.org/ns">
  <d:response>
    <d:href>/remote.php/dav/files/alice/notes/</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>notes</d:displayname>
        <d:resourcetype><d:collection/></d:resourcetype>
        <d:getetag>"dir-etag"</d:getetag>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/remote.php/dav/files/alice/notes/sub/</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>sub</d:displayname>
        <d:resourcetype><d:collection/></d:resourcetype>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/remote.php/dav/files/alice/notes/z%20plan.md</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>z plan.md</d:displayname>
        <d:getcontentlength>42</d:getcontentlength>
        <d:getlastmodified>Mon, 12 Jan 2026 10:00:00 GMT</d:getlastmodified>
        <d:getcontenttype>text/markdown</d:getcontenttype>
        <d:getetag>"file-etag"</d:getetag>
        <d:resourcetype/>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
    <d:propstat>
      <d:prop><oc:fileid/></d:prop>
      <d:status>HTTP/1.1 404 Not Found</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/remote.php/dav/files/alice/notes/a.txt</d:href>
    <d:propstat>
      <d:prop>
        <d:displayname>a.txt</d:displayname>
        <d:getcontentlength>7</d:getcontentlength>
        <d:resourcetype/>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PROPFIND" {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Depth"); got != "1" {
			t.Errorf("depth = %q", got)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("missing basic auth")
		}
		w.WriteHeader(http.StatusMultiStatus)
		io.WriteString(w, listingXML)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	items, err := client.List(context.Background(), "/notes")
	if err != nil {
		t.Fatal(err)
	}

	// The requested directory is filtered out; directories sort before
	// files, names alphabetical within each group.
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Name != "sub" || items[0].Type != "directory" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Name != "a.txt" || items[2].Name != "z plan.md" {
		t.Errorf("file order: %q, %q", items[1].Name, items[2].Name)
	}

	plan := items[2]
	if plan.Path != "/notes/z plan.md" {
		t.Errorf("path = %q", plan.Path)
	}
	if plan.Size != 42 || plan.MimeType != "text/markdown" {
		t.Errorf("metadata = %+v", plan)
	}
	if plan.ETag != "file-etag" {
		t.Errorf("etag = %q (quotes should be trimmed)", plan.ETag)
	}
}

func TestListNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	_, err := client.List(context.Background(), "/ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote.php/dav/files/alice/notes/a.md" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/markdown")
		w.Header().Set("Last-Modified", "Mon, 12 Jan 2026 10:00:00 GMT")
		io.WriteString(w, "# heading")
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	content, err := client.ReadFile(context.Background(), "/notes/a.md")
	if err != nil {
		t.Fatal(err)
	}
	if content.Content != "# heading" || content.MimeType != "text/markdown" {
		t.Errorf("content = %+v", content)
	}
	if content.Size != 9 {
		t.Errorf("size = %d", content.Size)
	}
}

func TestWriteFile(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	if err := client.WriteFile(context.Background(), "/a.md", "updated"); err != nil {
		t.Fatal(err)
	}
	if body != "updated" {
		t.Errorf("body = %q", body)
	}
}

func TestMkdirConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "MKCOL" {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	err := client.Mkdir(context.Background(), "/existing")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	if err := client.Remove(context.Background(), "/a.md"); err != nil {
		t.Fatal(err)
	}
}

func TestUpstreamErrorStatusForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "pw")
	err := client.WriteFile(context.Background(), "/a.md", "x")

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error type %T", err)
	}
	if upstream.Service != "nextcloud" || upstream.StatusCode() != http.StatusForbidden {
		t.Errorf("upstream = %+v", upstream)
	}
}

func TestRelativePath(t *testing.T) {
	cases := []struct {
		href string
		want string
	}{
		{"/remote.php/dav/files/alice/notes/a.md", "/notes/a.md"},
		{"/remote.php/dav/files/alice", "/"},
		{"/unrelated/path", "/unrelated/path"},
	}
	for _, tc := range cases {
		if got := relativePath(tc.href); got != tc.want {
			t.Errorf("relativePath(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("http://x", "", "").Configured() {
		t.Error("missing credentials should report unconfigured")
	}
	if !NewClient("http://x", "alice", "pw").Configured() {
		t.Error("credentials present should report configured")
	}
}

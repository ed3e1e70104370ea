package zeus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas/internal/domain"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("api key = %q", got)
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Query != "meetings" || req.Limit != 5 {
			t.Errorf("request = %+v", req)
		}

		json.NewEncoder(w).Encode(SearchResponse{
			Results: []Memory{{MemoryID: "m1", Content: "standup notes", Source: "atlas"}},
			Count:   1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	resp, err := client.Search(context.Background(), &SearchRequest{Query: "meetings", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Results[0].MemoryID != "m1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/store" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(StoreResponse{MemoryID: "m2", CreatedAt: "2026-02-01T10:00:00Z"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	resp, err := client.Store(context.Background(), &StoreRequest{Content: "note", Source: "atlas"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.MemoryID != "m2" {
		t.Errorf("memory id = %q", resp.MemoryID)
	}
}

func TestDelete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	if err := client.Delete(context.Background(), "m3"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "DELETE /api/memory/m3" {
		t.Errorf("request = %q", gotPath)
	}
}

func TestUpstreamErrorForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	_, err := client.Search(context.Background(), &SearchRequest{Query: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error type %T", err)
	}
	if upstream.Service != "zeus" || upstream.StatusCode() != http.StatusTooManyRequests {
		t.Errorf("upstream = %+v", upstream)
	}
}

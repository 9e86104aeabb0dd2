package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

// fakeStore is a minimal in-memory pathstore.
type fakeStore struct {
	mu     sync.Mutex
	nodes  map[string]json.RawMessage
	status int // forced status for every request when non-zero
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.status != 0 {
		http.Error(w, "forced", f.status)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Value json.RawMessage `json:"value"`
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.nodes[key] = req.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var nodes []map[string]any
			for k, v := range f.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, map[string]any{"key_path": k, "value": v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := f.nodes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
	case http.MethodDelete:
		delete(f.nodes, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newFake(t *testing.T) (*fakeStore, *Client) {
	t.Helper()
	f := &fakeStore{nodes: make(map[string]json.RawMessage)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL, "secret")
}

func TestDocumentLifecycle(t *testing.T) {
	_, c := newFake(t)
	ctx := context.Background()

	rec := DocumentRecord{
		DocID:       "doc-1",
		Filename:    "report.pdf",
		ContentHash: "abc",
		Source:      outline.SourceToc,
		Title:       "Annual Report",
		Outline:     []outline.Entry{{Level: outline.H1, Text: "Intro", Page: 1}},
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := c.PublishDocument(ctx, rec); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := c.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != rec.Title || len(got.Outline) != 1 || got.Outline[0] != rec.Outline[0] {
		t.Fatalf("unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("expected created_at %s, got %s", rec.CreatedAt, got.CreatedAt)
	}

	list, err := c.ListDocuments(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].DocID != "doc-1" {
		t.Errorf("unexpected list %+v", list)
	}

	if err := c.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = c.GetDocument(ctx, "doc-1")
	if err != nil || got != nil {
		t.Errorf("expected missing document, got %+v, %v", got, err)
	}
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusForbidden, false},
	}
	for _, tt := range tests {
		f, c := newFake(t)
		f.status = tt.status
		err := c.PutNode(context.Background(), "k", NodeRequest{Value: 1})
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, err)
		}
		var se *StatusError
		if !tt.retryable && !errors.As(err, &se) {
			t.Errorf("status %d: expected StatusError, got %T", tt.status, err)
		}
	}
}

func TestTransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "secret")
	err := c.PutNode(context.Background(), "k", NodeRequest{Value: 1})
	if !IsRetryable(err) {
		t.Errorf("expected retryable transport error, got %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	f := &fakeStore{nodes: make(map[string]json.RawMessage)}
	srv := httptest.NewServer(f)
	defer srv.Close()

	c := NewClient(srv.URL, "wrong")
	if _, err := c.GetNode(context.Background(), "k"); err == nil || IsRetryable(err) {
		t.Errorf("expected non-retryable auth error, got %v", err)
	}
}

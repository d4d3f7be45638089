package cache

import (
	"bytes"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, maxAge time.Duration) *ResponseCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "responses.db"), maxAge)
	if err != nil {
		t.Fatalf("cache open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutAndMatch(t *testing.T) {
	c := openTestCache(t, time.Hour)

	body := []byte(`{"id": 21}`)
	if err := c.Put("GET /?q=21", http.StatusOK, "application/json", body); err != nil {
		t.Fatalf("put: %v", err)
	}

	cached, ok := c.Match("GET /?q=21")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if cached.Status != http.StatusOK || cached.ContentType != "application/json" {
		t.Fatalf("unexpected metadata: %d %s", cached.Status, cached.ContentType)
	}
	if !bytes.Equal(cached.Body, body) {
		t.Fatalf("unexpected body: %s", cached.Body)
	}

	if _, ok := c.Match("GET /?q=other"); ok {
		t.Fatal("unrelated key must miss")
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	c := openTestCache(t, time.Hour)

	if err := c.Put("k", http.StatusOK, "text/plain", []byte("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put("k", http.StatusOK, "text/plain", []byte("new")); err != nil {
		t.Fatalf("put: %v", err)
	}

	cached, ok := c.Match("k")
	if !ok || string(cached.Body) != "new" {
		t.Fatalf("expected replacement, got %v %q", ok, cached)
	}
}

func TestMatchDeletesExpiredEntry(t *testing.T) {
	c := openTestCache(t, -time.Second)

	if err := c.Put("stale", http.StatusOK, "text/plain", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Match("stale"); ok {
		t.Fatal("expired entry must miss")
	}

	// The miss also removed the row, so pruning finds nothing left.
	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 rows left to prune, got %d", removed)
	}
}

func TestPruneRemovesOnlyExpired(t *testing.T) {
	c := openTestCache(t, -time.Second)
	if err := c.Put("stale", http.StatusOK, "text/plain", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.maxAge = time.Hour
	if err := c.Put("fresh", http.StatusOK, "text/plain", []byte("y")); err != nil {
		t.Fatalf("put: %v", err)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned row, got %d", removed)
	}
	if _, ok := c.Match("fresh"); !ok {
		t.Fatal("fresh entry must survive the prune")
	}
}

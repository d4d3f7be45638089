// Package cache is the response-cache collaborator: successful upstream
// responses are stored by request key and replayed until they expire.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type ResponseCache struct {
	db     *sql.DB
	maxAge time.Duration
}

type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

func Open(path string, maxAge time.Duration) (*ResponseCache, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key          TEXT PRIMARY KEY,
		status       INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		body         BLOB NOT NULL,
		expires_at   INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &ResponseCache{db: db, maxAge: maxAge}, nil
}

// Match returns the cached response for the key if one exists and has not
// expired.
func (c *ResponseCache) Match(key string) (*CachedResponse, bool) {
	var resp CachedResponse
	var expiresAt int64

	row := c.db.QueryRow(
		`SELECT status, content_type, body, expires_at FROM responses WHERE key = ?`, key)
	if err := row.Scan(&resp.Status, &resp.ContentType, &resp.Body, &expiresAt); err != nil {
		return nil, false
	}

	if time.Now().Unix() >= expiresAt {
		c.db.Exec(`DELETE FROM responses WHERE key = ?`, key)
		return nil, false
	}
	return &resp, true
}

// Put stores a response under the key, replacing any previous entry.
func (c *ResponseCache) Put(key string, status int, contentType string, body []byte) error {
	expiresAt := time.Now().Add(c.maxAge).Unix()
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO responses (key, status, content_type, body, expires_at) VALUES (?, ?, ?, ?, ?)`,
		key, status, contentType, body, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}
	return nil
}

// PutAsync writes the entry in the background so the cache write never
// delays the response.
func (c *ResponseCache) PutAsync(key string, status int, contentType string, body []byte) {
	buf := make([]byte, len(body))
	copy(buf, body)
	go c.Put(key, status, contentType, buf)
}

// Prune deletes expired entries and reports how many were removed.
func (c *ResponseCache) Prune() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM responses WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *ResponseCache) MaxAge() time.Duration {
	return c.maxAge
}

func (c *ResponseCache) Close() error {
	return c.db.Close()
}

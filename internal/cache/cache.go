// Package cache provides a TTL write-through cache for analysis results,
// keyed by (platform, identifier). It is backed by SQLite so a long-lived
// MCP session can optionally persist across restarts; the default DSN is
// in-memory, keeping caching ephemeral.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/govpulse/govpulse/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	platform   TEXT NOT NULL,
	identifier TEXT NOT NULL,
	payload    BLOB NOT NULL,
	expires_at INTEGER NOT NULL,
	PRIMARY KEY (platform, identifier)
);`

// Cache stores marshaled GovernanceHealth records with a fixed TTL.
// Safe for concurrent use.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// Open creates a cache at the given path. An empty path selects an
// in-memory database.
func Open(path string, ttl time.Duration) (*Cache, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// An in-memory SQLite database exists per connection; a single
	// connection keeps all callers on the same data.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached analysis for (platform, identifier), if present
// and not expired. Expired rows are treated as misses and deleted lazily.
// Storage errors degrade to misses; the cache never blocks an analysis.
func (c *Cache) Get(platform, identifier string) (*model.GovernanceHealth, bool) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT payload, expires_at FROM analyses WHERE platform = ? AND identifier = ?`,
		platform, identifier,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return nil, false
	}

	if c.now().Unix() >= expiresAt {
		c.db.Exec(`DELETE FROM analyses WHERE platform = ? AND identifier = ?`, platform, identifier)
		return nil, false
	}

	var h model.GovernanceHealth
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, false
	}
	return &h, true
}

// Set upserts an analysis with a deadline of now + TTL.
func (c *Cache) Set(platform, identifier string, h *model.GovernanceHealth) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO analyses (platform, identifier, payload, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (platform, identifier) DO UPDATE SET
		   payload = excluded.payload, expires_at = excluded.expires_at`,
		platform, identifier, payload, c.now().Add(c.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

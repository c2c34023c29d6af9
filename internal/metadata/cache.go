package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vmunix/sortarr/internal/media"
)

// Cache provides SQLite-backed persistence for resolved candidate lists.
// Entries never expire on their own; they are only removed by an explicit
// operator action, so reruns never re-fetch an identity that has already
// been resolved, low-confidence or not.
type Cache struct {
	db *sql.DB
}

// NewCache creates a metadata cache over an opened database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// fetchedAtLayout is stored explicitly as text. Fixed width in UTC so
// MIN() over the column is chronological.
const fetchedAtLayout = "2006-01-02T15:04:05.000000000Z"

// Get retrieves cached candidates by key. Returns false on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]media.Candidate, bool) {
	var blob string
	err := c.db.QueryRowContext(ctx,
		"SELECT candidates FROM metadata_cache WHERE key = ?", key,
	).Scan(&blob)
	if err != nil {
		return nil, false
	}

	var candidates []media.Candidate
	if err := json.Unmarshal([]byte(blob), &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

// Put stores candidates for a key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, candidates []media.Candidate) error {
	blob, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, candidates, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET candidates = excluded.candidates, fetched_at = excluded.fetched_at`,
		key, string(blob), time.Now().UTC().Format(fetchedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Delete removes one cached entry. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Clear removes every cached entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache")
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return result.RowsAffected()
}

// Stats reports the entry count and oldest fetch time.
func (c *Cache) Stats(ctx context.Context) (count int64, oldest time.Time, err error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MIN(fetched_at), '') FROM metadata_cache")
	var oldestStr string
	if err := row.Scan(&count, &oldestStr); err != nil {
		return 0, time.Time{}, fmt.Errorf("cache stats: %w", err)
	}
	if oldestStr != "" {
		if t, perr := time.Parse(fetchedAtLayout, oldestStr); perr == nil {
			oldest = t
		}
	}
	return count, oldest, nil
}

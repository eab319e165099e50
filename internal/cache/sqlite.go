package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite persists entries in the thumbnail_cache table. The schema is
// created by database.Migrate.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite creates a store backed by db.
func NewSQLite(db *sql.DB, ttl time.Duration) *SQLite {
	return &SQLite{db: db, ttl: ttl, now: time.Now}
}

// Get returns the entry for key if present and not expired.
func (s *SQLite) Get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e        Entry
		found    int
		cachedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT image_url, found, cached_at FROM thumbnail_cache WHERE key = ?`, key,
	).Scan(&e.ImageURL, &found, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading cache entry: %w", err)
	}

	e.Found = found != 0
	e.CachedAt, err = time.Parse(time.RFC3339, cachedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parsing cached_at: %w", err)
	}
	if e.Expired(s.ttl, s.now()) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set upserts e under key.
func (s *SQLite) Set(ctx context.Context, key string, e Entry) error {
	if e.CachedAt.IsZero() {
		e.CachedAt = s.now()
	}
	found := 0
	if e.Found {
		found = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO thumbnail_cache (key, image_url, found, cached_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			image_url = excluded.image_url,
			found = excluded.found,
			cached_at = excluded.cached_at
	`, key, e.ImageURL, found, e.CachedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Prune deletes entries older than the store TTL and returns how many
// rows were removed.
func (s *SQLite) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM thumbnail_cache WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

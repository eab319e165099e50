// Package cache stores resolved thumbnail lookups keyed by artist identity.
package cache

import (
	"context"
	"time"
)

// Backend names accepted by the configuration.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Entry is one cached lookup outcome.
type Entry struct {
	ImageURL string    `json:"image_url,omitempty"`
	Found    bool      `json:"found"`
	CachedAt time.Time `json:"cached_at"`
}

// Expired reports whether the entry is older than ttl. A non-positive ttl
// never expires.
func (e Entry) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(e.CachedAt) > ttl
}

// Store is a lookup cache. Get returns ok=false on a miss or an expired
// entry.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set KALA_TEST_REDIS_ADDR to run against a live redis.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("KALA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("KALA_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, RedisConfig{Addr: addr}, time.Minute)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close() //nolint:errcheck

	key := "test-" + time.Now().Format(time.RFC3339Nano)
	if _, ok, err := r.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get before Set = ok %v, err %v", ok, err)
	}
	if err := r.Set(ctx, key, Entry{Found: true, ImageURL: "https://example.org/a.jpg"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if got.ImageURL != "https://example.org/a.jpg" || !got.Found {
		t.Errorf("Get = %+v", got)
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedis(ctx, RedisConfig{Addr: "127.0.0.1:1"}, time.Minute); err == nil {
		t.Fatal("expected connection error")
	}
}

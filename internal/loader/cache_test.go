package loader

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	key := CacheKey{Repo: "o/r", Path: "README.md", Branch: "main"}
	if err := c.Set(ctx, key, "doc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if text, ok, _ := c.Get(ctx, key); !ok || text != "doc" {
		t.Fatalf("Get = %q, %v", text, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("entry should have expired")
	}
}

func TestMemoryCache_KeyIncludesBranch(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()
	_ = c.Set(ctx, CacheKey{Repo: "o/r", Path: "README.md", Branch: "main"}, "main")
	if _, ok, _ := c.Get(ctx, CacheKey{Repo: "o/r", Path: "README.md", Branch: "master"}); ok {
		t.Error("different branch should miss")
	}
}

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := NewRedisCache("redis://"+s.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func TestRedisCache_SetGet(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()
	key := CacheKey{Repo: "o/r", Path: "docs/paper.md", Branch: "master"}

	if _, ok, err := c.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get before Set = %v, %v", ok, err)
	}
	if err := c.Set(ctx, key, "# Paper"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	text, ok, err := c.Get(ctx, key)
	if err != nil || !ok || text != "# Paper" {
		t.Fatalf("Get = %q, %v, %v", text, ok, err)
	}

	if !s.Exists("folio:doc:o/r@master:docs/paper.md") {
		t.Error("expected prefixed key in redis")
	}
	if ttl := s.TTL("folio:doc:o/r@master:docs/paper.md"); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	s.FastForward(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("entry should have expired")
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache("not-a-url", time.Minute); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis creates a test Redis client for testing.
// Unit tests connect to a local Redis and skip when unavailable; the
// integration suite under tests/integration uses testcontainers instead.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil, zerolog.Nop())
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, zerolog.Nop())
	ctx := context.Background()

	key, err := TokenKey("kitchen rental new york ny", 2)
	if err != nil {
		t.Fatalf("TokenKey error: %v", err)
	}

	store.Set(ctx, key, "tok-next-page", 10*time.Minute)

	got, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != "tok-next-page" {
		t.Errorf("Get() = %q, want %q", got, "tok-next-page")
	}

	// TTL must be set on the Redis key
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("TTL error: %v", err)
	}
	if ttl <= 0 || ttl > 10*time.Minute {
		t.Errorf("TTL = %v, want (0, 10m]", ttl)
	}
}

func TestRedisStore_Miss(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, zerolog.Nop())

	value, ok := store.Get(context.Background(), "token:never stored:0")
	if ok {
		t.Error("expected miss for unknown key")
	}
	if value != "" {
		t.Errorf("miss should return empty value, got %q", value)
	}
}

func TestRedisStore_UnreachableDegradesToMiss(t *testing.T) {
	// Point at a port nothing listens on
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	store := NewRedisStore(client, zerolog.Nop())
	ctx := context.Background()

	// Get degrades to miss, Set to no-op; neither panics or errors
	if _, ok := store.Get(ctx, "token:q:0"); ok {
		t.Error("unreachable backend should report a miss")
	}
	store.Set(ctx, "token:q:0", "tok", time.Minute)
}

func TestRedisStore_Overwrite(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, zerolog.Nop())
	ctx := context.Background()

	store.Set(ctx, "total:kitchen rental", "20", time.Hour)
	store.Set(ctx, "total:kitchen rental", "40", time.Hour)

	got, ok := store.Get(ctx, "total:kitchen rental")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "40" {
		t.Errorf("Get() = %q, want %q (last write wins)", got, "40")
	}
}

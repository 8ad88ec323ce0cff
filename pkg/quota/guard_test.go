package quota

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
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

func TestGuard_FreshWindowAllows(t *testing.T) {
	client := setupTestRedis(t)
	guard := NewGuard(client, zerolog.Nop(), 100, time.Hour)

	allowed, err := guard.Allow(context.Background())
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !allowed {
		t.Error("fresh window should allow requests")
	}
}

func TestGuard_RecordIncrementsAndSetsWindow(t *testing.T) {
	client := setupTestRedis(t)
	guard := NewGuard(client, zerolog.Nop(), 100, time.Hour)
	ctx := context.Background()

	guard.Record(ctx)
	guard.Record(ctx)
	guard.Record(ctx)

	state, err := guard.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Used != 3 {
		t.Errorf("Used = %d, want 3", state.Used)
	}

	// Window TTL must be attached to the counter key
	ttl, err := client.TTL(ctx, RedisKeyRequestCount).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("counter TTL = %v, want (0, 1h]", ttl)
	}
}

func TestGuard_BlocksWhenExhausted(t *testing.T) {
	client := setupTestRedis(t)
	guard := NewGuard(client, zerolog.Nop(), 2, time.Hour)
	ctx := context.Background()

	guard.Record(ctx)
	guard.Record(ctx)

	allowed, err := guard.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if allowed {
		t.Error("exhausted budget should block requests")
	}
}

func TestGuard_FailsOpenWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	guard := NewGuard(client, zerolog.Nop(), 100, time.Hour)

	allowed, err := guard.Allow(context.Background())
	if err == nil {
		t.Error("Allow should surface the backend error for logging")
	}
	if !allowed {
		t.Error("Allow should fail open when the backend is unreachable")
	}

	// Record must absorb the failure
	guard.Record(context.Background())
}

func TestNewGuard_Defaults(t *testing.T) {
	guard := NewGuard(nil, zerolog.Nop(), 0, 0)
	if guard.limit != DefaultDailyLimit {
		t.Errorf("limit = %d, want %d", guard.limit, DefaultDailyLimit)
	}
	if guard.window != DefaultWindow {
		t.Errorf("window = %v, want %v", guard.window, DefaultWindow)
	}
}

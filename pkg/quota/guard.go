package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "places_quota_remaining",
		Help: "Number of requests remaining in the current Places API budget window",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "places_quota_blocks_total",
		Help: "Total number of requests blocked due to an exhausted request budget",
	})

	quotaThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "places_quota_throttles_total",
		Help: "Total number of requests throttled due to a low request budget",
	})
)

// Guard monitors the shared request budget and gates outbound requests.
type Guard struct {
	redis  *redis.Client
	logger zerolog.Logger
	limit  int
	window time.Duration
}

// NewGuard creates a new request-budget guard. Non-positive limit or window
// fall back to the defaults.
func NewGuard(redisClient *redis.Client, logger zerolog.Logger, limit int, window time.Duration) *Guard {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{
		redis:  redisClient,
		logger: logger,
		limit:  limit,
		window: window,
	}
}

// State retrieves the current budget state from Redis.
// Returns a fresh-window state if no counter exists yet.
func (g *Guard) State(ctx context.Context) (*BudgetState, error) {
	used, err := g.redis.Get(ctx, RedisKeyRequestCount).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get request count: %w", err)
	}
	if err == redis.Nil {
		return &BudgetState{
			Used:    0,
			Limit:   g.limit,
			ResetAt: time.Now().Add(g.window),
		}, nil
	}

	ttl, err := g.redis.PTTL(ctx, RedisKeyRequestCount).Result()
	if err != nil {
		return nil, fmt.Errorf("get window expiry: %w", err)
	}
	if ttl < 0 {
		// Counter without expiry (stale from a crashed window setup)
		ttl = g.window
	}

	return &BudgetState{
		Used:    used,
		Limit:   g.limit,
		ResetAt: time.Now().Add(ttl),
	}, nil
}

// Allow checks whether a request fits the budget. It fails open: when Redis
// is unreachable the request is allowed and the error returned so the caller
// can log the degradation — the budget is an optimization, like the cache.
// Requests in the throttle band are delayed by one second.
func (g *Guard) Allow(ctx context.Context) (bool, error) {
	state, err := g.State(ctx)
	if err != nil {
		return true, fmt.Errorf("get budget state: %w", err)
	}

	quotaRemaining.Set(float64(state.Remaining()))

	if state.Exhausted() {
		g.logger.Error().
			Int("used", state.Used).
			Int("limit", state.Limit).
			Dur("window_resets_in", state.TimeUntilReset()).
			Msg("Request budget exhausted - blocking request")

		quotaBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling() {
		g.logger.Warn().
			Int("remaining", state.Remaining()).
			Int("limit", state.Limit).
			Msg("Request budget low - throttling request")

		quotaThrottlesTotal.Inc()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	return true, nil
}

// Record counts one outbound request against the budget. The window TTL is
// attached when the counter is created. Failures are absorbed after logging;
// an uncounted request must not fail the fetch.
func (g *Guard) Record(ctx context.Context) {
	used, err := g.redis.Incr(ctx, RedisKeyRequestCount).Result()
	if err != nil {
		g.logger.Warn().Err(err).Msg("Failed to record request against budget")
		return
	}
	if used == 1 {
		if err := g.redis.Expire(ctx, RedisKeyRequestCount, g.window).Err(); err != nil {
			g.logger.Warn().Err(err).Msg("Failed to set budget window expiry")
		}
	}

	remaining := g.limit - int(used)
	if remaining < 0 {
		remaining = 0
	}
	quotaRemaining.Set(float64(remaining))
}

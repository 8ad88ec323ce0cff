// Package quota implements a shared request budget for the Places API.
// Billing for the Places API is per request, so the guard counts outbound
// calls in a fixed window shared across all process instances via Redis and
// gates requests before the budget is exceeded.
package quota

import (
	"time"
)

// Redis key for the shared request counter. The key carries the window TTL,
// so expiry doubles as the window reset.
const RedisKeyRequestCount = "places:quota:request_count"

// Defaults for the request budget.
const (
	// DefaultDailyLimit caps outbound Places API requests per window.
	DefaultDailyLimit = 5000

	// DefaultWindow is the budget window length.
	DefaultWindow = 24 * time.Hour
)

// ThrottleFraction triggers throttling when the remaining budget falls below
// this fraction of the limit.
const ThrottleFraction = 0.1

// BudgetState represents the current request budget state.
// This state is shared across all client instances via Redis.
type BudgetState struct {
	// Used is the number of requests counted in the current window.
	Used int `json:"used"`

	// Limit is the configured request cap for the window.
	Limit int `json:"limit"`

	// ResetAt is the timestamp when the window resets (counter key expiry).
	ResetAt time.Time `json:"reset_at"`
}

// Remaining returns the number of requests left in the budget.
// Never negative.
func (s *BudgetState) Remaining() int {
	remaining := s.Limit - s.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Exhausted returns true if the budget is spent and requests should be blocked.
func (s *BudgetState) Exhausted() bool {
	return s.Remaining() == 0
}

// NeedsThrottling returns true if requests should be slowed because the
// remaining budget is below the throttle fraction.
func (s *BudgetState) NeedsThrottling() bool {
	if s.Exhausted() {
		return false
	}
	return float64(s.Remaining()) < float64(s.Limit)*ThrottleFraction
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (s *BudgetState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

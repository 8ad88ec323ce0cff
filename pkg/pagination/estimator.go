package pagination

import (
	"context"
	"strconv"
	"time"

	"github.com/kitchenfinder/places-client/pkg/cache"
)

// Estimator maintains a best-effort estimate of total results per query.
// The estimate is advisory display data, never used to gate fetches. It is
// computed authoritatively on page 1 and only read on later pages.
type Estimator struct {
	store cache.Store
	ttl   time.Duration
}

// NewEstimator creates an estimator over the given store. Estimates change
// less often than tokens, so their TTL is longer (≈1 hour).
func NewEstimator(store cache.Store, ttl time.Duration) *Estimator {
	if ttl <= 0 {
		ttl = DefaultEstimateTTL
	}
	return &Estimator{
		store: store,
		ttl:   ttl,
	}
}

// RecordFirstPage computes the estimate from a page-1 response and stores it.
// A present next-page token signals at least one more page, so one page-size
// increment is added. Returns the computed estimate.
func (e *Estimator) RecordFirstPage(ctx context.Context, query string, resultCount, pageSize int, hasNextPage bool) int {
	estimate := resultCount
	if hasNextPage {
		estimate += pageSize
	}
	e.store.Set(ctx, cache.EstimateKey(query), strconv.Itoa(estimate), e.ttl)
	return estimate
}

// Cached returns the stored estimate for a query, if present and well-formed.
func (e *Estimator) Cached(ctx context.Context, query string) (int, bool) {
	value, ok := e.store.Get(ctx, cache.EstimateKey(query))
	if !ok {
		return 0, false
	}
	estimate, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return estimate, true
}

// Estimate returns the estimate for a later page: the cached value when
// present, otherwise the deterministic page × pageSize placeholder. The
// fallback is clearly approximate and can diverge from the true total once a
// token chain is broken; no truer figure is available from the upstream API.
func (e *Estimator) Estimate(ctx context.Context, query string, page, pageSize int) int {
	if estimate, ok := e.Cached(ctx, query); ok {
		return estimate
	}
	return page * pageSize
}

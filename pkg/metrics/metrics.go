// Package metrics documents the Prometheus metrics exposed by the places
// client and its supporting packages. All metrics are registered on the
// default Prometheus registry via promauto at package init time; importing
// a package is enough to make its metrics available on /metrics.
//
// # Cache (pkg/cache)
//
//   - places_cache_hits_total{backend}: successful store reads, by backend
//     (redis, memory)
//   - places_cache_misses_total: store reads that found no value
//   - places_cache_degraded_total{operation}: store operations absorbed after
//     a backend failure (get, set)
//
// # Pagination (pkg/pagination)
//
//   - places_page_fetches_total{kind,outcome}: page fetches, by kind
//     (direct, token) and outcome (ok, token_not_found, page_out_of_range,
//     upstream_error)
//
// # Upstream client (pkg/places)
//
//   - places_requests_total{endpoint,status}: upstream HTTP requests
//   - places_request_duration_seconds{endpoint}: upstream request latency
//   - places_errors_total{class}: upstream errors by class (client, server,
//     rate_limit, network)
//   - places_retries_total{error_class}: retry attempts
//   - places_retry_backoff_seconds{error_class}: backoff delay distribution
//   - places_retry_exhausted_total{error_class}: operations that failed after
//     exhausting all retry attempts
//
// # Quota (pkg/quota)
//
//   - places_quota_remaining: requests left in the current budget window
//   - places_quota_blocks_total: requests refused because the budget was spent
//   - places_quota_throttles_total: requests delayed inside the throttle band
//
// # Example queries
//
// Cache hit ratio over five minutes:
//
//	sum(rate(places_cache_hits_total[5m]))
//	  / (sum(rate(places_cache_hits_total[5m])) + sum(rate(places_cache_misses_total[5m])))
//
// Upstream p95 latency:
//
//	histogram_quantile(0.95, sum(rate(places_request_duration_seconds_bucket[5m])) by (le, endpoint))
//
// Continuation fetches rejected for a missing token:
//
//	rate(places_page_fetches_total{kind="token",outcome="token_not_found"}[5m])
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry is the registerer all package metrics attach to. It defaults to
// the global Prometheus registry; tests may swap it before first use.
var Registry prometheus.Registerer = prometheus.DefaultRegisterer

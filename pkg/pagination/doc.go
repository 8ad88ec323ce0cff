// Package pagination resolves (query, page) requests against a token-based
// upstream search API using the token store in pkg/cache.
//
// The upstream API is stateless: each page of results comes with an opaque
// continuation token authorizing retrieval of the next page, and nothing
// else. Multi-page browsing therefore depends on the cache — the token
// written while serving page N is the only way to reach page N+1. Tokens
// expire upstream within minutes, so the store TTL is kept at 10 minutes.
//
// Example usage:
//
//	store := cache.NewRedisStore(redisClient, logger)
//	orch := pagination.New(store, placesClient, pagination.DefaultConfig())
//	result, err := orch.FetchPage(ctx, "kitchen rental New York NY", 1, 20)
//
// The orchestrator:
//   - Fetches page 1 directly, later pages via the stored token
//   - Fails fast with ErrTokenNotFound when the chain is broken (skipped,
//     out-of-order, or expired pages) — the caller redirects to page 1
//   - Stores each response's next-page token for the following page
//   - Maintains an advisory total-count estimate (exact-ish on page 1,
//     cached or page×pageSize on later pages)
//
// Pages must be requested in order within one browsing session; there is no
// way to reconstruct a mid-sequence token.
package pagination

// Package cache provides the token-indexed pagination cache: deterministic
// key derivation for continuation tokens and result-count estimates, plus a
// time-bound key-value store abstraction with Redis and in-memory backends.
//
// # Key Derivation
//
// Keys are pure functions of the normalized query. Normalization lower-cases
// the query, trims it, and collapses whitespace runs, so queries differing
// only in case or spacing share cache entries:
//
//	cache.NormalizeQuery("  Kitchen  Rental ") // "kitchen rental"
//
// Continuation tokens are forward-looking: the token returned while serving
// page P unlocks page P+1 and is stored under P. TokenKey therefore encodes
// the target page minus one:
//
//	key, _ := cache.TokenKey("kitchen rental New York NY", 2)
//	// "token:kitchen rental new york ny:1"
//
//	cache.EstimateKey("kitchen rental New York NY")
//	// "total:kitchen rental new york ny"
//
// These formats are stable; existing Redis data depends on them.
//
// # Store Semantics
//
// A miss is a normal outcome, not an error. Backend failures are absorbed
// inside the store — reads degrade to misses, writes to no-ops — because the
// cache is an optimization: a page-1 fetch works without it, and a lost token
// only redirects the user back to page 1. Degradations are logged at Warn and
// counted in places_cache_degraded_total.
//
// # Expiry
//
// Entries expire by TTL only; there is no explicit delete in normal
// operation. The Redis backend delegates expiry to the server. The in-memory
// backend takes an injectable Clock so tests can simulate expiry:
//
//	clock := &fakeClock{now: time.Now()}
//	store := cache.NewMemoryStore(clock)
//	store.Set(ctx, key, token, 10*time.Minute)
//	clock.now = clock.now.Add(11 * time.Minute)
//	_, ok := store.Get(ctx, key) // ok == false
//
// # Metrics
//
//   - places_cache_hits_total{backend} - Store hits
//   - places_cache_misses_total - Store misses
//   - places_cache_degraded_total{operation} - Operations absorbed on backend failure
package cache

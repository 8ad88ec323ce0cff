package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPage indicates a page number below 1 was passed to key derivation.
var ErrInvalidPage = errors.New("page must be >= 1")

// NormalizeQuery canonicalizes a free-text search query for cache addressing:
// lower-cased, leading/trailing whitespace trimmed, internal whitespace runs
// collapsed to single spaces. Normalization is idempotent.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// TokenKey derives the cache key holding the continuation token needed to
// reach the given page. Tokens are forward-looking: the token obtained while
// serving page P-1 is what unlocks page P, so the key encodes page-1.
//
// Format: token:<normalizedQuery>:<page-1>
//
// The raw query may be passed unnormalized; normalization is applied here.
func TokenKey(query string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w (got %d)", ErrInvalidPage, page)
	}
	return fmt.Sprintf("token:%s:%d", NormalizeQuery(query), page-1), nil
}

// EstimateKey derives the cache key holding the total-count estimate for a
// query. Estimates are page-independent.
//
// Format: total:<normalizedQuery>
func EstimateKey(query string) string {
	return "total:" + NormalizeQuery(query)
}

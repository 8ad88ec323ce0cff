package pagination

import (
	"errors"

	"github.com/kitchenfinder/places-client/pkg/cache"
)

// Errors returned by the orchestrator. Upstream failures are not listed here;
// they surface unchanged as *places.Error.
var (
	// ErrInvalidPage indicates a page number below 1. Rejected before any I/O.
	ErrInvalidPage = cache.ErrInvalidPage

	// ErrTokenNotFound indicates a page > 1 was requested with no stored
	// continuation token. There is no way to reconstruct a missing
	// mid-sequence token — the upstream API only continues forward from the
	// immediately preceding page — so the caller should redirect to page 1.
	ErrTokenNotFound = errors.New("continuation token not found")

	// ErrPageOutOfRange indicates the requested page exceeds the known
	// extent of results. Recoverable the same way as ErrTokenNotFound.
	ErrPageOutOfRange = errors.New("page exceeds known results")
)

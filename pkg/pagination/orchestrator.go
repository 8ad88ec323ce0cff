package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/kitchenfinder/places-client/pkg/cache"
	"github.com/kitchenfinder/places-client/pkg/places"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for page fetches.
var pageFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "places_page_fetches_total",
	Help: "Total page fetches by kind and outcome",
}, []string{"kind", "outcome"}) // kind: "direct", "token"

// Default TTLs. Continuation tokens expire upstream within minutes, so the
// cache TTL must never exceed the token's real validity window.
const (
	DefaultTokenTTL    = 10 * time.Minute
	DefaultEstimateTTL = 1 * time.Hour
)

// Searcher issues a text search against the upstream API.
type Searcher interface {
	SearchText(ctx context.Context, req places.SearchRequest) (*places.SearchResponse, error)
}

// Metadata describes the pagination state of a result page.
type Metadata struct {
	CurrentPage    int  `json:"currentPage"`
	PageSize       int  `json:"pageSize"`
	HasNextPage    bool `json:"hasNextPage"`
	EstimatedTotal int  `json:"estimatedTotal"`
}

// Result is a fetched page with its pagination metadata.
type Result struct {
	Places     []places.Place `json:"places"`
	Pagination Metadata       `json:"pagination"`
	Query      string         `json:"successfulQuery"`
}

// Config holds orchestrator TTLs.
type Config struct {
	TokenTTL    time.Duration
	EstimateTTL time.Duration
}

// DefaultConfig returns the default TTL configuration.
func DefaultConfig() Config {
	return Config{
		TokenTTL:    DefaultTokenTTL,
		EstimateTTL: DefaultEstimateTTL,
	}
}

// Orchestrator resolves a (query, page) request into an upstream fetch plan
// and reconciles the response with the token store. Requests are independent;
// concurrent fetches for the same key resolve by last-write-wins, since
// tokens for identical queries are interchangeable.
type Orchestrator struct {
	store     cache.Store
	searcher  Searcher
	estimator *Estimator
	config    Config
	logger    zerolog.Logger
}

// New creates a pagination orchestrator.
func New(store cache.Store, searcher Searcher, cfg Config) *Orchestrator {
	if store == nil {
		panic("store cannot be nil")
	}
	if searcher == nil {
		panic("searcher cannot be nil")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.EstimateTTL <= 0 {
		cfg.EstimateTTL = DefaultEstimateTTL
	}

	return &Orchestrator{
		store:     store,
		searcher:  searcher,
		estimator: NewEstimator(store, cfg.EstimateTTL),
		config:    cfg,
		logger:    log.With().Str("component", "pagination").Logger(),
	}
}

// FetchPage fetches one page of search results.
//
// Page 1 is a direct search. Pages above 1 need the continuation token stored
// by the preceding page's fetch; when it is absent or expired the fetch is
// not attempted and ErrTokenNotFound is returned so the caller can redirect
// to page 1. On success the next-page token (if any) is stored for page+1 and
// the total estimate is updated. Upstream failures surface as *places.Error
// with nothing written to the store.
func (o *Orchestrator) FetchPage(ctx context.Context, query string, page, pageSize int) (*Result, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPage, page)
	}
	if pageSize <= 0 {
		pageSize = places.DefaultMaxResultCount
	}

	normalized := cache.NormalizeQuery(query)
	kind := "direct"

	req := places.SearchRequest{
		TextQuery:      query,
		MaxResultCount: pageSize,
	}

	if page > 1 {
		kind = "token"
		key, err := cache.TokenKey(query, page)
		if err != nil {
			return nil, err
		}

		token, ok := o.store.Get(ctx, key)
		if !ok {
			o.logger.Warn().
				Str("query", normalized).
				Int("page", page).
				Str("key", key).
				Msg("No continuation token for page, redirect to page 1")
			pageFetchesTotal.WithLabelValues(kind, "token_not_found").Inc()
			return nil, fmt.Errorf("%w for page %d", ErrTokenNotFound, page)
		}
		req.PageToken = token
	}

	resp, err := o.searcher.SearchText(ctx, req)
	if err != nil {
		pageFetchesTotal.WithLabelValues(kind, "upstream_error").Inc()
		return nil, err
	}

	// A successful-but-empty later page is distinct from a valid empty list
	// when the cached estimate says the page should not exist. The fallback
	// formula would make this check vacuous, so only a cached estimate counts.
	if page > 1 && len(resp.Places) == 0 {
		if estimate, ok := o.estimator.Cached(ctx, query); ok {
			knownPages := (estimate + pageSize - 1) / pageSize
			if page > knownPages {
				pageFetchesTotal.WithLabelValues(kind, "page_out_of_range").Inc()
				return nil, fmt.Errorf("%w: page %d, ~%d results known", ErrPageOutOfRange, page, estimate)
			}
		}
	}

	hasNextPage := resp.NextPageToken != ""

	// The token returned while serving this page unlocks page+1 and is keyed
	// by the page that produced it. Overwrites reset the TTL.
	if hasNextPage {
		nextKey, err := cache.TokenKey(query, page+1)
		if err == nil {
			o.store.Set(ctx, nextKey, resp.NextPageToken, o.config.TokenTTL)
		}
	}

	var estimatedTotal int
	if page == 1 {
		estimatedTotal = o.estimator.RecordFirstPage(ctx, query, len(resp.Places), pageSize, hasNextPage)
	} else {
		estimatedTotal = o.estimator.Estimate(ctx, query, page, pageSize)
	}

	o.logger.Debug().
		Str("query", normalized).
		Int("page", page).
		Int("places", len(resp.Places)).
		Bool("has_next_page", hasNextPage).
		Int("estimated_total", estimatedTotal).
		Msg("Page fetched")
	pageFetchesTotal.WithLabelValues(kind, "ok").Inc()

	return &Result{
		Places: resp.Places,
		Pagination: Metadata{
			CurrentPage:    page,
			PageSize:       pageSize,
			HasNextPage:    hasNextPage,
			EstimatedTotal: estimatedTotal,
		},
		Query: query,
	}, nil
}

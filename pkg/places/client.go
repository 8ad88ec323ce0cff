// Package places provides the Google Places API (New) client used for text
// search and place details, with quota guarding, retry, and error
// classification.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kitchenfinder/places-client/pkg/quota"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Places API operations.
var (
	placesRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "places_requests_total",
		Help: "Total Places API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	placesRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "places_request_duration_seconds",
		Help:    "Places API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	placesErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "places_errors_total",
		Help: "Total Places API errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the Places API (New) endpoint.
	DefaultBaseURL = "https://places.googleapis.com"

	// DefaultMaxResultCount is the page size requested from searchText.
	// 20 is the API maximum per page.
	DefaultMaxResultCount = 20

	searchEndpoint = "/v1/places:searchText"

	// searchFieldMask limits search responses to the fields the directory
	// renders, plus the continuation token.
	searchFieldMask = "places.id,places.displayName,places.formattedAddress," +
		"places.rating,places.userRatingCount,places.priceLevel," +
		"places.businessStatus,places.nationalPhoneNumber,places.websiteUri," +
		"places.types,nextPageToken"

	// detailsFieldMask is the extended mask for single-place lookups.
	detailsFieldMask = "id,displayName,formattedAddress,location,rating," +
		"userRatingCount,priceLevel,types,businessStatus," +
		"nationalPhoneNumber,websiteUri,googleMapsUri,editorialSummary,photos"
)

// Config holds the client configuration.
type Config struct {
	// APIKey is the Places API credential (REQUIRED).
	APIKey string

	// BaseURL overrides the API endpoint (for testing).
	BaseURL string

	// Timeout bounds each upstream call.
	Timeout time.Duration

	// MaxResultCount is the page size requested from searchText.
	MaxResultCount int

	// Quota gates outbound requests against the daily budget. Optional;
	// nil disables gating.
	Quota *quota.Guard
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		Timeout:        30 * time.Second,
		MaxResultCount: DefaultMaxResultCount,
	}
}

// Client is the Places API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new Places client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxResultCount <= 0 {
		cfg.MaxResultCount = DefaultMaxResultCount
	}

	logger := log.With().Str("component", "places-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// SearchText performs a text search. An empty req.MaxResultCount defaults to
// the configured page size. Server and network failures are retried with
// backoff; identical text queries are idempotent upstream, so repeating the
// call is safe. Client errors return immediately as *Error.
func (c *Client) SearchText(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.TextQuery == "" {
		return nil, fmt.Errorf("text query is required")
	}
	if req.MaxResultCount <= 0 {
		req.MaxResultCount = c.config.MaxResultCount
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var result SearchResponse
	err = c.do(ctx, searchEndpoint, func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+searchEndpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)
		return httpReq, nil
	}, &result)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", req.TextQuery).
		Int("places", len(result.Places)).
		Bool("has_next_page_token", result.NextPageToken != "").
		Msg("Search complete")

	return &result, nil
}

// Details fetches a single place by ID and derives media URLs for its photos.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place id is required")
	}

	endpoint := "/v1/places/" + placeID

	var place Place
	err := c.do(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.config.BaseURL+endpoint, nil)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("X-Goog-FieldMask", detailsFieldMask)
		return httpReq, nil
	}, &place)
	if err != nil {
		return nil, err
	}

	for i := range place.Photos {
		c.populatePhotoURLs(&place.Photos[i])
	}

	return &place, nil
}

// populatePhotoURLs derives media URLs in three widths from a photo resource name.
func (c *Client) populatePhotoURLs(photo *Photo) {
	if photo.Name == "" {
		return
	}
	base := fmt.Sprintf("%s/v1/%s/media?key=%s", c.config.BaseURL, photo.Name, c.config.APIKey)
	photo.URLSmall = base + "&maxWidthPx=400"
	photo.URL = base + "&maxWidthPx=800"
	photo.URLLarge = base + "&maxWidthPx=1600"
}

// do executes a request with quota gating, retry, metrics, and decoding into out.
func (c *Client) do(ctx context.Context, endpoint string, build func(context.Context) (*http.Request, error), out any) error {
	startTime := time.Now()
	defer func() {
		placesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if c.config.Quota != nil {
		allowed, err := c.config.Quota.Allow(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Quota check failed, allowing request")
		} else if !allowed {
			c.logger.Warn().Str("endpoint", endpoint).Msg("Request blocked by quota guard")
			placesRequestsTotal.WithLabelValues(endpoint, "quota_blocked").Inc()
			return &Error{
				StatusCode: http.StatusTooManyRequests,
				ErrorClass: ErrorClassRateLimit,
				Message:    "daily request budget exhausted",
			}
		}
	}

	attempt := func() error {
		httpReq, err := build(ctx)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("X-Goog-Api-Key", c.config.APIKey)
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if c.config.Quota != nil {
			c.config.Quota.Record(ctx)
		}
		if err != nil {
			placesErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			placesRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			return &Error{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		placesRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			errClass := classifyStatus(resp.StatusCode)
			placesErrorsTotal.WithLabelValues(string(errClass)).Inc()

			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Places API request error")

			return &Error{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    resp.Status,
				Detail:     string(detail),
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			placesErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
			return &Error{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassServer,
				Message:    "decode response body",
				Err:        err,
			}
		}
		return nil
	}

	return retryWithBackoff(ctx, attempt, func(err error) ErrorClass {
		var placesErr *Error
		if errors.As(err, &placesErr) {
			return placesErr.ErrorClass
		}
		return ErrorClassNetwork
	})
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

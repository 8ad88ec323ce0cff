package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/kitchenfinder/places-client/pkg/cache"
	"github.com/kitchenfinder/places-client/pkg/logging"
	"github.com/kitchenfinder/places-client/pkg/pagination"
	"github.com/kitchenfinder/places-client/pkg/places"
	"github.com/kitchenfinder/places-client/pkg/quota"
	"github.com/kitchenfinder/places-client/pkg/sitemap"
)

func main() {
	// Configuration from environment
	apiKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	logLevel := getEnv("LOG_LEVEL", "info")
	siteURL := getEnv("SITE_URL", "https://kitchenfinder.example.com")
	listingQuery := getEnv("LISTING_QUERY", "commercial kitchen for rent")

	logging.Setup(logging.Config{Level: logging.LogLevel(logLevel), Output: os.Stderr})

	if apiKey == "" {
		log.Fatal().Msg("GOOGLE_PLACES_API_KEY is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	// Ping Redis
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
	}
	log.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	store := cache.NewRedisStore(redisClient, logging.NewLogger("token-store"))
	guard := quota.NewGuard(redisClient, logging.NewLogger("quota"), quota.DefaultDailyLimit, quota.DefaultWindow)

	clientCfg := places.DefaultConfig(apiKey)
	clientCfg.Quota = guard
	placesClient, err := places.New(clientCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Places client")
	}

	orchestrator := pagination.New(store, placesClient, pagination.DefaultConfig())
	sitemapBuilder := sitemap.NewBuilder(store, placesClient, siteURL, listingQuery)

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/health/redis", redisHealthHandler(store))
	http.HandleFunc("/api/search", searchHandler(orchestrator))
	http.HandleFunc("/api/place-details", detailsHandler(placesClient))
	http.HandleFunc("/debug/pagination", debugPaginationHandler)
	http.HandleFunc("/sitemap.xml", sitemapHandler(sitemapBuilder))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	log.Info().Str("addr", addr).Msg("Starting search proxy server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type detailsRequest struct {
	PlaceID string `json:"placeId"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// redisHealthHandler probes the token store with a write/read round trip.
func redisHealthHandler(store cache.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "REDIS_DOWN", err.Error())
			return
		}

		probe := "health:probe"
		store.Set(ctx, probe, "ok", 10*time.Second)
		if value, ok := store.Get(ctx, probe); !ok || value != "ok" {
			writeError(w, http.StatusServiceUnavailable, "REDIS_DEGRADED", "write/read probe failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func searchHandler(orchestrator *pagination.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
			return
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "", "invalid request body")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "", "query is required")
			return
		}
		if req.Page == 0 {
			req.Page = 1
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := orchestrator.FetchPage(ctx, req.Query, req.Page, req.PageSize)
		if err != nil {
			writeSearchError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// writeSearchError maps pagination and upstream errors to HTTP responses.
func writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pagination.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", err.Error())
	case errors.Is(err, pagination.ErrTokenNotFound):
		writeError(w, http.StatusBadRequest, "TOKEN_NOT_FOUND",
			"Invalid page token. Please start from page 1.")
	case errors.Is(err, pagination.ErrPageOutOfRange):
		writeError(w, http.StatusNotFound, "PAGE_OUT_OF_RANGE", err.Error())
	default:
		var placesErr *places.Error
		if errors.As(err, &placesErr) && placesErr.StatusCode >= 400 {
			writeError(w, placesErr.StatusCode, string(placesErr.ErrorClass), placesErr.Message)
			return
		}
		writeError(w, http.StatusBadGateway, "", "upstream request failed")
	}
}

func detailsHandler(client *places.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
			return
		}

		var req detailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "", "invalid request body")
			return
		}
		if req.PlaceID == "" {
			writeError(w, http.StatusBadRequest, "", "placeId is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		place, err := client.Details(ctx, req.PlaceID)
		if err != nil {
			var placesErr *places.Error
			if errors.As(err, &placesErr) && placesErr.StatusCode >= 400 {
				writeError(w, placesErr.StatusCode, string(placesErr.ErrorClass), placesErr.Message)
				return
			}
			writeError(w, http.StatusBadGateway, "", "upstream request failed")
			return
		}

		writeJSON(w, http.StatusOK, place)
	}
}

// debugPaginationHandler shows how a query/page pair maps onto store keys.
func debugPaginationHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "", "query parameter is required")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "", "page must be an integer")
			return
		}
		page = parsed
	}

	tokenKey, err := cache.TokenKey(query, page)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"normalizedQuery": cache.NormalizeQuery(query),
		"page":            page,
		"tokenKey":        tokenKey,
		"estimateKey":     cache.EstimateKey(query),
	})
}

func sitemapHandler(builder *sitemap.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		data, err := builder.XML(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "", "sitemap generation failed")
			return
		}

		w.Header().Set("Content-Type", "application/xml")
		w.Write(data)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Package testutil provides testing utilities for the places client.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPlaces is a configurable mock Places API server for testing.
type MockPlaces struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	ContinuationCount int
	LastRequestHeader http.Header
	LastPageToken     string
}

// searchBody is the subset of the search request the mock inspects.
type searchBody struct {
	TextQuery string `json:"textQuery"`
	PageToken string `json:"pageToken,omitempty"`
}

// NewMockPlaces creates a new mock Places API server.
func NewMockPlaces() *MockPlaces {
	mock := &MockPlaces{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Buffer the body so tracking and handlers can both read it.
		var raw []byte
		if r.Body != nil {
			raw, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(raw))
		}

		var body searchBody
		json.Unmarshal(raw, &body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastPageToken = body.PageToken
		if body.PageToken != "" {
			mock.ContinuationCount++
		}
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPlaces) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPlaces) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPlaces) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ContinuationCount = 0
	m.LastRequestHeader = nil
	m.LastPageToken = ""
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPlaces) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockPlaces) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		// Add delay if specified
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		// Set headers
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		// Write status and body
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetSearchPages configures the text search endpoint to serve a fixed page
// chain. Page 1 is served for requests without a pageToken; each subsequent
// page is served only for its predecessor's token. Tokens are "page-2",
// "page-3", and so on.
func (m *MockPlaces) SetSearchPages(pages [][]string) {
	m.SetHandler("/v1/places:searchText", func(w http.ResponseWriter, r *http.Request) {
		var body searchBody
		json.NewDecoder(r.Body).Decode(&body)

		index := 0
		if body.PageToken != "" {
			var n int
			if _, err := fmt.Sscanf(body.PageToken, "page-%d", &n); err != nil || n < 2 || n > len(pages) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": {"message": "invalid page token"}}`))
				return
			}
			index = n - 1
		}

		resp := map[string]any{"places": placeList(pages[index])}
		if index+1 < len(pages) {
			resp["nextPageToken"] = fmt.Sprintf("page-%d", index+2)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

func placeList(names []string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for i, name := range names {
		out = append(out, map[string]any{
			"id":          fmt.Sprintf("place-%s-%d", name, i),
			"displayName": map[string]string{"text": name},
		})
	}
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPlaces) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetContinuationCount returns the number of requests carrying a page token.
func (m *MockPlaces) GetContinuationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ContinuationCount
}

// GetLastPageToken returns the pageToken of the most recent search request.
func (m *MockPlaces) GetLastPageToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastPageToken
}

// defaultHandler provides a minimal empty search response.
func (m *MockPlaces) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"places": []}`))
}

// NewSearchResponse creates a 200 OK search response with the given body.
func NewSearchResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": {"message": "Quota exceeded"}}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": {"message": "Internal error"}}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewInvalidTokenResponse creates the 400 response the upstream API returns
// for an expired or malformed page token.
func NewInvalidTokenResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       `{"error": {"message": "Invalid pageToken", "status": "INVALID_ARGUMENT"}}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

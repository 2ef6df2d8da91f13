// Package testutil provides testing utilities for the Manifold client.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Manifold endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request received by the mock server.
type RecordedRequest struct {
	Path   string
	Header http.Header
	Body   map[string]any
}

// SMILESList returns the smilesList field of the request body.
func (r RecordedRequest) SMILESList() []string {
	raw, _ := r.Body["smilesList"].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, _ := v.(string)
		out = append(out, s)
	}
	return out
}

// MockManifold is a configurable mock Manifold API server for testing.
type MockManifold struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request, body map[string]any)
	requests []RecordedRequest
}

// NewMockManifold creates a new mock Manifold server. Unconfigured paths
// answer 404 with a JSON detail-free body.
func NewMockManifold() *MockManifold {
	mock := &MockManifold{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request, body map[string]any)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r, body)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
	}))

	return mock
}

// URL returns the mock server URL, usable as client base URL.
func (m *MockManifold) URL() string {
	return m.server.URL + "/"
}

// Close shuts down the mock server.
func (m *MockManifold) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockManifold) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path. body is the
// decoded JSON request body.
func (m *MockManifold) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request, body map[string]any)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockManifold) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeResponse(w, resp)
	})
}

// SetSequence answers successive requests to path with resps in order;
// the last response repeats once the sequence is exhausted.
func (m *MockManifold) SetSequence(path string, resps ...MockResponse) {
	var (
		mu   sync.Mutex
		next int
	)
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		mu.Lock()
		resp := resps[min(next, len(resps)-1)]
		next++
		mu.Unlock()
		writeResponse(w, resp)
	})
}

// Requests returns the recorded requests in arrival order.
func (m *MockManifold) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockManifold) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewOKResponse creates a 200 OK response with the given JSON body.
func NewOKResponse(body string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: body}
}

// NewInvalidSMILESResponse creates a 422 response carrying msg.
func NewInvalidSMILESResponse(msg string) MockResponse {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return MockResponse{StatusCode: http.StatusUnprocessableEntity, Body: string(data)}
}

// NewRateLimitResponse creates a 429 response with a detail message.
func NewRateLimitResponse(detail string) MockResponse {
	data, _ := json.Marshal(map[string]string{"detail": detail})
	return MockResponse{StatusCode: http.StatusTooManyRequests, Body: string(data)}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewGarbageResponse creates a 200 response whose body is not JSON.
func NewGarbageResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       "<html>upstream timeout</html>",
		Headers:    map[string]string{"Content-Type": "text/html"},
	}
}

// FastScoreBatchHandler answers a fast-score batch request with one
// SAData item per SMILES, scoring each by score(smiles).
func FastScoreBatchHandler(score func(smiles string) float64) func(w http.ResponseWriter, r *http.Request, body map[string]any) {
	return func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		req := RecordedRequest{Body: body}
		results := make([]map[string]any, 0)
		for _, s := range req.SMILESList() {
			results = append(results, map[string]any{
				"smiles": s,
				"SAData": map[string]any{"fastSAScore": score(s), "SAAlertLevel": "LOW"},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

// ExactBatchHandler answers an exact-search batch request with one item
// per SMILES, each listing a single catalog entry echoing the query.
func ExactBatchHandler() func(w http.ResponseWriter, r *http.Request, body map[string]any) {
	return func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		req := RecordedRequest{Body: body}
		results := make([]map[string]any, 0)
		for _, s := range req.SMILESList() {
			results = append(results, map[string]any{
				"smiles": s,
				"catalogEntries": []map[string]any{{
					"catalogName":     "mock_catalog",
					"catalogId":       "MOCK-" + s,
					"smiles":          s,
					"link":            "https://example.com/" + s,
					"inchikeyMatches": map[string]bool{"exact": true, "parent": true, "connectivity": true},
				}},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}
}

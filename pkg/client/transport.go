package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Sternrassler/manifold-client/pkg/manifold"
)

// Transport sends a JSON POST and returns the raw response. Non-2xx
// statuses are not errors at this layer; only failures to complete the
// exchange are.
type Transport interface {
	Post(ctx context.Context, url string, header http.Header, body any) (*Response, error)
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode decodes the body as a JSON object.
func (r *Response) Decode() manifold.Decoded {
	return manifold.Decode(r.Body)
}

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPTransport creates a transport using httpClient.
func NewHTTPTransport(httpClient *http.Client, userAgent string) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, url string, header http.Header, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string, header http.Header, body any) (*Response, error)

// Post implements Transport.
func (f TransportFunc) Post(ctx context.Context, url string, header http.Header, body any) (*Response, error) {
	return f(ctx, url, header, body)
}

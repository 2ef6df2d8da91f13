// Package client provides the Manifold API client: exact catalog search
// and synthetic-accessibility scoring, single and batched.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/manifold-client/pkg/logging"
	"github.com/Sternrassler/manifold-client/pkg/manifold"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for Manifold client operations.
var (
	manifoldRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manifold_requests_total",
		Help: "Total Manifold requests by endpoint and status",
	}, []string{"endpoint", "status"})

	manifoldRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "manifold_request_duration_seconds",
		Help:    "Manifold request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	manifoldErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manifold_errors_total",
		Help: "Total Manifold errors by kind",
	}, []string{"kind"})

	manifoldDegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manifold_degraded_total",
		Help: "Responses degraded to an empty result by endpoint and reason",
	}, []string{"endpoint", "reason"})

	manifoldBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manifold_batches_total",
		Help: "Total batches sent by endpoint",
	}, []string{"endpoint"})
)

const (
	// DefaultBaseURL is the root of the Manifold REST API.
	DefaultBaseURL = "https://api.postera.ai/api/v1/"

	// HeaderAPIKey carries the caller's API key on every request.
	HeaderAPIKey = "X-API-KEY"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "manifold-client/0.1.0"
)

// Client is the Manifold API client. It holds no per-call state and may
// be shared.
type Client struct {
	transport Transport
	config    Config
	logger    zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is sent as X-API-KEY (REQUIRED)
	APIKey string

	// BaseURL is the API root; endpoint paths are appended to it
	BaseURL string

	// UserAgent header for the default HTTP transport
	UserAgent string

	// Timeout per request for the default HTTP transport
	Timeout time.Duration

	// Transport overrides the HTTP transport (fakes in tests)
	Transport Transport
}

// DefaultConfig returns a configuration against the public API.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new Manifold client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key is required", manifold.ErrInvalidArgument)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must be >= 0 (got %s)", manifold.ErrInvalidArgument, cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(&http.Client{Timeout: cfg.Timeout}, cfg.UserAgent)
	}

	return &Client{
		transport: transport,
		config:    cfg,
		logger:    logging.NewLogger("manifold-client"),
	}, nil
}

// APIKey returns the key sent with every request.
func (c *Client) APIKey() string {
	return c.config.APIKey
}

// Endpoint returns the absolute URL for an API path such as "exact/".
func (c *Client) Endpoint(path string) string {
	return c.config.BaseURL + strings.TrimPrefix(path, "/")
}

// request is a fully built call to one endpoint.
type request struct {
	endpoint endpoint
	url      string
	header   http.Header
	body     map[string]any
}

// buildRequest assembles the URL, headers and body for a call. It has no
// side effects.
func (c *Client) buildRequest(ep endpoint, smiles []string, alerts bool) request {
	header := http.Header{}
	header.Set(HeaderAPIKey, c.config.APIKey)

	return request{
		endpoint: ep,
		url:      c.Endpoint(ep.path),
		header:   header,
		body:     ep.body(smiles, alerts),
	}
}

// send performs the transport call for req.
func (c *Client) send(ctx context.Context, req request) (*Response, error) {
	name := req.endpoint.name

	startTime := time.Now()
	defer func() {
		manifoldRequestDuration.WithLabelValues(name).Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("endpoint", name).
		Str("url", req.url).
		Msg("Executing Manifold request")

	resp, err := c.transport.Post(ctx, req.url, req.header, req.body)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", name).Msg("Manifold request failed")
		manifoldErrorsTotal.WithLabelValues("transport").Inc()
		manifoldRequestsTotal.WithLabelValues(name, "transport_error").Inc()
		return nil, fmt.Errorf("post %s: %w", req.endpoint.path, err)
	}

	manifoldRequestsTotal.WithLabelValues(name, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// classify decodes resp and runs the shared status classification.
func (c *Client) classify(ep endpoint, resp *Response) (manifold.Outcome, map[string]any, error) {
	decoded := resp.Decode()
	outcome, err := manifold.Classify(resp.StatusCode, decoded)
	if err != nil {
		c.recordError(ep, resp.StatusCode, err)
		return outcome, nil, err
	}

	if outcome == manifold.OutcomeEmpty {
		reason := "server_error"
		event := c.logger.Warn().Str("endpoint", ep.name).Int("status", resp.StatusCode)
		if !decoded.OK() {
			reason = "undecodable"
			event = event.Err(decoded.Err)
		}
		event.Str("outcome", reason).Msg("Manifold response degraded to empty result")
		manifoldDegradedTotal.WithLabelValues(ep.name, reason).Inc()
		return outcome, nil, nil
	}

	return outcome, decoded.Object, nil
}

// recordError logs and counts a classified error.
func (c *Client) recordError(ep endpoint, status int, err error) {
	kind := "unknown"
	var merr *manifold.Error
	if errors.As(err, &merr) {
		kind = string(merr.Kind)
	} else if errors.Is(err, manifold.ErrMissingField) {
		kind = "missing_field"
	}
	manifoldErrorsTotal.WithLabelValues(kind).Inc()

	event := c.logger.Warn()
	if kind == string(manifold.KindMalformedResponse) || kind == "missing_field" {
		event = c.logger.Error()
	}
	event.Err(err).
		Str("endpoint", ep.name).
		Int("status", status).
		Str("error_kind", kind).
		Msg("Manifold request error")
}

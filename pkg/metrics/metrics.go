// Package metrics documents the Prometheus metrics exported by the
// Manifold client. Metrics are defined in their owning packages (client,
// store) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all Manifold metrics are attached to.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - manifold_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - manifold_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - manifold_errors_total{kind} (Counter): Errors by kind (invalid_input, rate_limited,
//     malformed_response, missing_field, transport)
//   - manifold_degraded_total{endpoint, reason} (Counter): Responses swallowed into empty
//     results (server_error, undecodable)
//   - manifold_batches_total{endpoint} (Counter): Batches completed by endpoint
//
// Store Metrics (pkg/store):
//   - manifold_store_writes_total (Counter): Runs written to Redis
//   - manifold_store_reads_total{result} (Counter): Run lookups by result (hit, miss)
//   - manifold_store_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Rejected SMILES rate
//   rate(manifold_errors_total{kind="invalid_input"}[5m])
//
//   # Share of responses degraded to empty results
//   sum(rate(manifold_degraded_total[5m])) / sum(rate(manifold_requests_total[5m]))
//
//   # P95 request latency per endpoint
//   histogram_quantile(0.95, sum by (endpoint, le) (rate(manifold_request_duration_seconds_bucket[5m])))

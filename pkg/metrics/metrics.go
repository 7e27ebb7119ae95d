// Package metrics documents the Prometheus metrics exposed by the service.
// All metrics are defined in their respective packages (api, cache,
// warehouse) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics are registered
// automatically via promauto in their respective packages and served on
// /metrics.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// HTTP Metrics (pkg/api):
//   - ssot_http_requests_total{route, status} (Counter): Requests by route and HTTP status
//   - ssot_http_request_duration_seconds{route} (Histogram): Request duration by route
//   - ssot_requests_rejected_total{reason} (Counter): Range validation rejections by reason
//
// Cache Metrics (pkg/cache):
//   - ssot_cache_hits_total (Counter): Report cache hits
//   - ssot_cache_misses_total (Counter): Report cache misses
//   - ssot_cache_evictions_total (Counter): Expired entries removed on read
//   - ssot_cache_entries (Gauge): Current entry count
//
// Warehouse Metrics (pkg/warehouse):
//   - ssot_warehouse_queries_total{status} (Counter): Queries by outcome (ok, empty, error)
//   - ssot_warehouse_query_duration_seconds (Histogram): Query duration
//   - ssot_warehouse_query_errors_total{reason} (Counter): Failures by classification
//   - ssot_warehouse_bytes_processed_total (Counter): Bytes processed by queries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(ssot_cache_hits_total[5m]) /
//   (rate(ssot_cache_hits_total[5m]) + rate(ssot_cache_misses_total[5m]))
//
//   # Warehouse Error Rate
//   rate(ssot_warehouse_query_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(ssot_http_request_duration_seconds_bucket[5m]))
//
//   # Spend Guard: bytes processed per hour
//   increase(ssot_warehouse_bytes_processed_total[1h])

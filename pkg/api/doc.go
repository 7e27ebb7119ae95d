// Package api wires the HTTP surface: the chi router, the management
// report handler that orchestrates validation, freshness policy, cache and
// warehouse gateway, and the health endpoint.
//
// Per-request flow for the report route:
//
//	validate start/end -> derive cache key -> freshness decision ->
//	cache get -> (hit: return) / (miss: gateway fetch -> cache set -> return)
//
// Validation failures answer 400 before any cache or gateway work; gateway
// failures answer 502 and never write to the cache.
package api

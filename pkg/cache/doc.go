// Package cache provides the in-process report cache: a deterministic
// request-shape key and a TTL'd key/value store with lazy expiry.
//
// The store is injected into the HTTP handler rather than held as package
// state, so it is constructed once per process and substituted in tests.
//
// # Basic Usage
//
//	store := cache.NewStore()
//
//	key := cache.Key{
//		Route:  "/v1/shopify/gestao",
//		Params: req.URL.Query(),
//	}
//
//	if value, ok := store.Get(key); ok {
//		// serve cached report
//	}
//
//	store.Set(key, report, 5*time.Minute)
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - ssot_cache_hits_total - Cache hits
//   - ssot_cache_misses_total - Cache misses
//   - ssot_cache_evictions_total - Expired entries removed on read
//   - ssot_cache_entries - Current entry count
package cache

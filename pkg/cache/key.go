package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a unique request shape for the report cache.
type Key struct {
	// Route is the logical route pattern (e.g. "/v1/shopify/gestao").
	Route string

	// Params is the full original query-parameter set, not just start/end,
	// so any extra distinguishing parameter participates in addressing.
	Params url.Values
}

// String generates a deterministic cache key string. Parameters are sorted
// by name, so submission order does not matter. A repeated parameter
// contributes every value in its original order, so requests differing in
// any value of any parameter address different entries.
//
// Example:
//
//	/v1/shopify/gestao?end=2024-01-31&start=2024-01-01
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Route + "?"
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		for _, value := range k.Params[name] {
			parts = append(parts, fmt.Sprintf("%s=%s", name, value))
		}
	}

	return k.Route + "?" + strings.Join(parts, "&")
}

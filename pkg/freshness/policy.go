// Package freshness decides how long a report for a given date range may be
// cached. Ranges that end before today are closed: no more events can land
// in them, so they are safe to cache for a long time. Ranges that include
// today (or the future) are still accumulating events and must be refreshed
// often.
package freshness

import (
	"time"

	"github.com/reise-data/ssot-api/pkg/daterange"
)

// Default TTLs per freshness class.
const (
	DefaultTTLClosed   = time.Hour
	DefaultTTLIntraday = 5 * time.Minute
)

// Policy holds the TTLs for the two freshness classes.
type Policy struct {
	TTLClosed   time.Duration
	TTLIntraday time.Duration
}

// DefaultPolicy returns the policy with stock TTLs.
func DefaultPolicy() Policy {
	return Policy{
		TTLClosed:   DefaultTTLClosed,
		TTLIntraday: DefaultTTLIntraday,
	}
}

// Decision is the per-request freshness verdict. It is derived transiently
// and never stored.
type Decision struct {
	Closed bool
	TTL    time.Duration
}

// MaxAge returns the TTL in whole seconds, for the Cache-Control header.
func (d Decision) MaxAge() int {
	return int(d.TTL / time.Second)
}

// Evaluate classifies the range against today. A range is closed iff its
// end is strictly before today; a range ending today is still open. Pure
// function, no failure modes.
func (p Policy) Evaluate(r daterange.Range, today string) Decision {
	closed := r.End < today
	ttl := p.TTLIntraday
	if closed {
		ttl = p.TTLClosed
	}
	return Decision{Closed: closed, TTL: ttl}
}

// Package testutil provides test doubles for the warehouse gateway and the
// reporting clock.
package testutil

import (
	"context"
	"sync"

	"github.com/reise-data/ssot-api/pkg/daterange"
	"github.com/reise-data/ssot-api/pkg/warehouse"
)

// StubGateway is a counting in-memory stand-in for the BigQuery client.
type StubGateway struct {
	mu sync.Mutex

	// Report is returned on success; may be nil to simulate "no data".
	Report warehouse.Report

	// Err, when set, fails every call.
	Err error

	// Calls counts gateway invocations.
	Calls int

	// LastRange records the most recent requested range.
	LastRange daterange.Range
}

// ManagementReport implements the api.Gateway interface.
func (g *StubGateway) ManagementReport(_ context.Context, r daterange.Range) (warehouse.Report, error) {
	g.mu.Lock()
	g.Calls++
	g.LastRange = r
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	return g.Report, nil
}

// CallCount returns the number of invocations so far.
func (g *StubGateway) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Calls
}

// SetErr swaps the failure mode between calls.
func (g *StubGateway) SetErr(err error) {
	g.mu.Lock()
	g.Err = err
	g.mu.Unlock()
}

// FixedClock pins "today" for freshness decisions in tests.
type FixedClock struct {
	Date string
}

// Today implements calendar.Clock.
func (c FixedClock) Today() string {
	return c.Date
}

// Package calendar resolves "today" in the reporting timezone and computes
// day spans between calendar dates.
package calendar

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format for calendar dates. All date comparisons in
// this codebase are plain string comparisons, which is only correct because
// this layout is fixed-width and zero-padded.
const DateLayout = "2006-01-02"

// ReportingTimezone is the civil timezone the dashboard reports in.
// "Today" is always resolved here, never in UTC or the host timezone.
const ReportingTimezone = "America/Sao_Paulo"

// Clock yields the current calendar date. Handlers depend on this interface
// so tests can pin "today".
type Clock interface {
	Today() string
}

// SystemClock resolves today from the wall clock in ReportingTimezone.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock loads the reporting timezone.
func NewSystemClock() (*SystemClock, error) {
	loc, err := time.LoadLocation(ReportingTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", ReportingTimezone, err)
	}
	return &SystemClock{loc: loc}, nil
}

// Today returns the current calendar date in the reporting timezone.
// It is always a bare date, so it is stable across DST transitions.
func (c *SystemClock) Today() string {
	return time.Now().In(c.loc).Format(DateLayout)
}

// DaysBetween returns the day count from a to b, both treated as midnight
// UTC instants so the result does not depend on any timezone. It is
// antisymmetric: DaysBetween(a, b) == -DaysBetween(b, a), and
// DaysBetween(a, a) == 0.
//
// Both arguments must already match DateLayout syntactically. Out-of-range
// components (e.g. "2024-02-30") are normalized forward the way time.Date
// does, mirroring that calendar validity is not checked at this layer.
func DaysBetween(a, b string) int {
	ua := utcMidnight(a)
	ub := utcMidnight(b)
	return int(ub.Sub(ua).Hours() / 24)
}

// utcMidnight parses a fixed-width YYYY-MM-DD string into a UTC midnight
// instant. Components are read positionally; the caller guarantees the
// string already passed the format check.
func utcMidnight(s string) time.Time {
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// Package daterange validates raw start/end query parameters into a date
// range before any cache or warehouse work happens.
package daterange

import (
	"fmt"
	"regexp"

	"github.com/reise-data/ssot-api/pkg/calendar"
)

// DefaultMaxRangeDays bounds the span of a single report query. Anything
// larger is rejected up front to keep warehouse cost predictable.
const DefaultMaxRangeDays = 400

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Reason classifies why a range was rejected.
type Reason string

const (
	// InvalidFormat means start or end is not a YYYY-MM-DD string.
	InvalidFormat Reason = "invalid_format"

	// RangeInverted means start sorts after end.
	RangeInverted Reason = "range_inverted"

	// RangeTooLarge means the span exceeds the configured maximum.
	RangeTooLarge Reason = "range_too_large"
)

// ValidationError is a client input error. It never reaches the cache or
// the warehouse; the handler turns it into a 400 response with Message as
// the body. The message texts are part of the API contract.
type ValidationError struct {
	Reason  Reason
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Range is a validated, immutable date range. Both fields are fixed-width
// YYYY-MM-DD strings, so lexicographic order is date order.
type Range struct {
	Start string
	End   string
}

// Days returns the day span of the range (end minus start).
func (r Range) Days() int {
	return calendar.DaysBetween(r.Start, r.End)
}

// Validator checks raw start/end strings against the range rules.
type Validator struct {
	// MaxRangeDays is the largest accepted span in days.
	MaxRangeDays int
}

// NewValidator creates a validator with the given span limit.
// Non-positive limits fall back to DefaultMaxRangeDays.
func NewValidator(maxRangeDays int) *Validator {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Validator{MaxRangeDays: maxRangeDays}
}

// Validate turns raw start/end strings into a Range or a *ValidationError.
//
// The format check is syntactic only: "2024-02-30" passes here and is left
// for the warehouse to reject. It has no side effects, so it is safe to call
// before any cache lookup.
func (v *Validator) Validate(start, end string) (Range, error) {
	if !ymdPattern.MatchString(start) || !ymdPattern.MatchString(end) {
		return Range{}, &ValidationError{
			Reason:  InvalidFormat,
			Message: "Use start e end no formato YYYY-MM-DD.",
		}
	}

	if start > end {
		return Range{}, &ValidationError{
			Reason:  RangeInverted,
			Message: "start não pode ser maior que end.",
		}
	}

	days := calendar.DaysBetween(start, end)
	if days > v.MaxRangeDays {
		return Range{}, &ValidationError{
			Reason:  RangeTooLarge,
			Message: fmt.Sprintf("Intervalo muito grande (%d dias).", days),
		}
	}

	return Range{Start: start, End: end}, nil
}

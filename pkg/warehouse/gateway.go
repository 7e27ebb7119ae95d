// Package warehouse is the boundary to the BigQuery data warehouse. It
// submits the parameterized management report query with an explicit job
// location and a billed-bytes ceiling, and surfaces provider failures as a
// typed GatewayError. Failures are never retried here: a gateway error is a
// request failure.
package warehouse

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Reason classifies a gateway failure for logging and metrics.
type Reason string

const (
	// ReasonAuth covers credential and permission failures.
	ReasonAuth Reason = "auth"

	// ReasonQuota covers project quota and rate limit rejections.
	ReasonQuota Reason = "quota"

	// ReasonCostCeiling means the query would exceed MaxBytesBilled.
	ReasonCostCeiling Reason = "cost_ceiling"

	// ReasonInvalidQuery covers malformed queries and unbindable
	// parameters, including syntactically valid but calendar-invalid dates.
	ReasonInvalidQuery Reason = "invalid_query"

	// ReasonUnavailable covers transient backend failures and timeouts.
	ReasonUnavailable Reason = "unavailable"

	// ReasonUnknown is everything else.
	ReasonUnknown Reason = "unknown"
)

// GatewayError wraps a warehouse failure with its classification. The
// underlying detail is logged server-side; clients only see a generic
// server error.
type GatewayError struct {
	Reason  Reason
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("warehouse %s error: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("warehouse %s error: %s", e.Reason, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// classify maps a BigQuery client error to a Reason.
func classify(err error) Reason {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return ReasonUnknown
	}

	for _, item := range gerr.Errors {
		switch item.Reason {
		case "accessDenied", "authError":
			return ReasonAuth
		case "quotaExceeded", "rateLimitExceeded", "billingTierLimitExceeded":
			return ReasonQuota
		case "bytesBilledLimitExceeded":
			return ReasonCostCeiling
		case "invalidQuery", "invalid":
			return ReasonInvalidQuery
		case "backendError", "internalError":
			return ReasonUnavailable
		}
	}

	switch {
	case gerr.Code == 401 || gerr.Code == 403:
		return ReasonAuth
	case gerr.Code == 429:
		return ReasonQuota
	case gerr.Code == 400:
		return ReasonInvalidQuery
	case gerr.Code >= 500:
		return ReasonUnavailable
	default:
		return ReasonUnknown
	}
}

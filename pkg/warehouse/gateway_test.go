package warehouse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestGatewayError_Error(t *testing.T) {
	err := &GatewayError{
		Reason:  ReasonQuota,
		Message: "query job failed",
		Err:     errors.New("quota exceeded for project"),
	}

	msg := err.Error()
	if !strings.Contains(msg, "quota") || !strings.Contains(msg, "query job failed") {
		t.Errorf("Error() = %q, missing reason or message", msg)
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &GatewayError{Reason: ReasonUnavailable, Message: "wait for query job", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is does not reach the wrapped error")
	}

	var gerr *GatewayError
	if !errors.As(error(err), &gerr) || gerr.Reason != ReasonUnavailable {
		t.Error("errors.As failed to recover *GatewayError")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{
			name: "access denied item",
			err: &googleapi.Error{
				Code:   403,
				Errors: []googleapi.ErrorItem{{Reason: "accessDenied"}},
			},
			want: ReasonAuth,
		},
		{
			name: "quota exceeded item",
			err: &googleapi.Error{
				Code:   403,
				Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
			},
			want: ReasonQuota,
		},
		{
			name: "bytes billed ceiling",
			err: &googleapi.Error{
				Code:   400,
				Errors: []googleapi.ErrorItem{{Reason: "bytesBilledLimitExceeded"}},
			},
			want: ReasonCostCeiling,
		},
		{
			name: "invalid query item",
			err: &googleapi.Error{
				Code:   400,
				Errors: []googleapi.ErrorItem{{Reason: "invalidQuery"}},
			},
			want: ReasonInvalidQuery,
		},
		{
			name: "backend error item",
			err: &googleapi.Error{
				Code:   503,
				Errors: []googleapi.ErrorItem{{Reason: "backendError"}},
			},
			want: ReasonUnavailable,
		},
		{
			name: "401 without items",
			err:  &googleapi.Error{Code: 401},
			want: ReasonAuth,
		},
		{
			name: "429 without items",
			err:  &googleapi.Error{Code: 429},
			want: ReasonQuota,
		},
		{
			name: "400 without items",
			err:  &googleapi.Error{Code: 400},
			want: ReasonInvalidQuery,
		},
		{
			name: "500 without items",
			err:  &googleapi.Error{Code: 500},
			want: ReasonUnavailable,
		},
		{
			name: "wrapped googleapi error",
			err:  fmt.Errorf("run query: %w", &googleapi.Error{Code: 503}),
			want: ReasonUnavailable,
		},
		{
			name: "non-provider error",
			err:  errors.New("dial tcp: connection refused"),
			want: ReasonUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderManagementReportSQL(t *testing.T) {
	sql := renderManagementReportSQL("reise-ssot", "mart_growth_us")

	for _, want := range []string{
		"`reise-ssot.mart_growth_us.shopify_funnel_daily_final_v`",
		"`reise-ssot.mart_growth_us.ssot_revenue_daily`",
		"`reise-ssot.mart_growth_us.shopify_channels_daily_dashboard_v`",
		"@start_date",
		"@end_date",
		"FORMAT_DATE('%F', @start_date)",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("rendered SQL missing %q", want)
		}
	}

	if strings.Contains(sql, "%[1]s") || strings.Contains(sql, "%%") {
		t.Error("rendered SQL still contains format verbs")
	}
}

package freshness

import (
	"testing"
	"time"

	"github.com/reise-data/ssot-api/pkg/daterange"
)

func TestPolicy_Evaluate(t *testing.T) {
	policy := DefaultPolicy()
	today := "2024-06-15"

	tests := []struct {
		name       string
		r          daterange.Range
		wantClosed bool
		wantTTL    time.Duration
	}{
		{
			name:       "ends yesterday is closed",
			r:          daterange.Range{Start: "2024-06-01", End: "2024-06-14"},
			wantClosed: true,
			wantTTL:    DefaultTTLClosed,
		},
		{
			name:       "ends today is open",
			r:          daterange.Range{Start: "2024-06-01", End: "2024-06-15"},
			wantClosed: false,
			wantTTL:    DefaultTTLIntraday,
		},
		{
			name:       "ends in the future is open",
			r:          daterange.Range{Start: "2024-06-01", End: "2024-06-20"},
			wantClosed: false,
			wantTTL:    DefaultTTLIntraday,
		},
		{
			name:       "fully historical is closed",
			r:          daterange.Range{Start: "2023-01-01", End: "2023-12-31"},
			wantClosed: true,
			wantTTL:    DefaultTTLClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Evaluate(tt.r, today)
			if d.Closed != tt.wantClosed {
				t.Errorf("Closed = %v, want %v", d.Closed, tt.wantClosed)
			}
			if d.TTL != tt.wantTTL {
				t.Errorf("TTL = %v, want %v", d.TTL, tt.wantTTL)
			}
		})
	}
}

func TestPolicy_CustomTTLs(t *testing.T) {
	policy := Policy{
		TTLClosed:   2 * time.Hour,
		TTLIntraday: 30 * time.Second,
	}

	d := policy.Evaluate(daterange.Range{Start: "2024-01-01", End: "2024-01-07"}, "2024-02-01")
	if !d.Closed || d.TTL != 2*time.Hour {
		t.Errorf("closed decision = %+v, want closed with 2h TTL", d)
	}

	d = policy.Evaluate(daterange.Range{Start: "2024-02-01", End: "2024-02-01"}, "2024-02-01")
	if d.Closed || d.TTL != 30*time.Second {
		t.Errorf("open decision = %+v, want open with 30s TTL", d)
	}
}

func TestDecision_MaxAge(t *testing.T) {
	d := Decision{TTL: time.Hour}
	if got := d.MaxAge(); got != 3600 {
		t.Errorf("MaxAge() = %d, want 3600", got)
	}
}

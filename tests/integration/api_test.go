// Package integration exercises the full HTTP stack — chi router, CORS,
// handler orchestration, cache and freshness policy — over a real listener,
// with only the warehouse stubbed out.
package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reise-data/ssot-api/internal/testutil"
	"github.com/reise-data/ssot-api/pkg/api"
	"github.com/reise-data/ssot-api/pkg/cache"
	"github.com/reise-data/ssot-api/pkg/daterange"
	"github.com/reise-data/ssot-api/pkg/freshness"
	"github.com/reise-data/ssot-api/pkg/warehouse"
)

func startServer(t *testing.T, gw *testutil.StubGateway, today string) *httptest.Server {
	t.Helper()

	handler, err := api.NewHandler(api.HandlerConfig{
		Validator:  daterange.NewValidator(400),
		Policy:     freshness.DefaultPolicy(),
		Store:      cache.NewStore(),
		Gateway:    gw,
		Clock:      testutil.FixedClock{Date: today},
		BQProject:  "reise-ssot",
		BQDataset:  "mart_growth_us",
		BQLocation: "US",
	})
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}

	srv := httptest.NewServer(api.NewRouter(handler, api.RouterConfig{}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestClosedRangeScenario(t *testing.T) {
	gw := &testutil.StubGateway{
		Report: warehouse.Report{
			"start":    "2024-01-01",
			"end_date": "2024-01-07",
			"timezone": "America/Sao_Paulo",
			"kpis":     map[string]any{"vendas": 1523.40, "pedidos": 12},
		},
	}
	srv := startServer(t, gw, "2024-02-01")

	url := srv.URL + api.RouteManagement + "?start=2024-01-01&end=2024-01-07"

	// First request: one gateway call, closed-range caching directive.
	resp, body := get(t, url)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q, want public, max-age=3600", got)
	}
	if gw.CallCount() != 1 {
		t.Errorf("gateway calls = %d, want 1", gw.CallCount())
	}
	if gw.LastRange.Start != "2024-01-01" || gw.LastRange.End != "2024-01-07" {
		t.Errorf("gateway range = %+v", gw.LastRange)
	}

	var report map[string]any
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("bad report body: %v", err)
	}
	if report["timezone"] != "America/Sao_Paulo" {
		t.Errorf("report = %v", report)
	}

	// Second request within the TTL window: served from cache.
	resp2, body2 := get(t, url)
	if resp2.StatusCode != 200 {
		t.Fatalf("cached status = %d, want 200", resp2.StatusCode)
	}
	if gw.CallCount() != 1 {
		t.Errorf("gateway calls after cached read = %d, want 1", gw.CallCount())
	}
	if string(body) != string(body2) {
		t.Error("cached body differs from original")
	}
}

func TestValidationErrorOverHTTP(t *testing.T) {
	gw := &testutil.StubGateway{}
	srv := startServer(t, gw, "2024-02-01")

	resp, body := get(t, srv.URL+api.RouteManagement+"?start=2024-02-10&end=2024-02-01")
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(body), "start não pode ser maior que end.") {
		t.Errorf("body = %s", body)
	}
	if gw.CallCount() != 0 {
		t.Errorf("gateway calls = %d, want 0", gw.CallCount())
	}
}

func TestGatewayFailureOverHTTP(t *testing.T) {
	gw := &testutil.StubGateway{
		Err: &warehouse.GatewayError{Reason: warehouse.ReasonQuota, Message: "quota exceeded"},
	}
	srv := startServer(t, gw, "2024-02-01")

	url := srv.URL + api.RouteManagement + "?start=2024-01-01&end=2024-01-07"

	resp, body := get(t, url)
	if resp.StatusCode != 502 {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if strings.Contains(string(body), "quota") {
		t.Error("provider detail leaked to the client")
	}

	// The failure was not cached: the next attempt reaches the gateway.
	get(t, url)
	if gw.CallCount() != 2 {
		t.Errorf("gateway calls = %d, want 2", gw.CallCount())
	}
}

func TestHealthOverHTTP(t *testing.T) {
	srv := startServer(t, &testutil.StubGateway{}, "2024-02-01")

	resp, body := get(t, srv.URL+api.RouteHealth)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("bad health body: %v", err)
	}
	if health["ok"] != true || health["service"] != "ssot-api" || health["today_sp"] != "2024-02-01" {
		t.Errorf("health = %v", health)
	}
}

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// RouterConfig holds the transport-level settings for the router.
type RouterConfig struct {
	// AllowedOrigins is the CORS allow-list; empty allows every origin.
	AllowedOrigins []string

	// RateLimitReqs requests per RateLimitWindow per client IP on the
	// report route. Zero disables rate limiting.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// NewRouter assembles the chi router around the handler.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))

	r.Get(RouteHealth, h.Health)

	// The report route fronts a billed warehouse query, so it gets
	// per-client rate limiting.
	report := r.With()
	if cfg.RateLimitReqs > 0 {
		report = r.With(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
	}
	report.Get(RouteManagement, h.ManagementReport)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestMetrics records per-route request counts, statuses and latency,
// and logs each request.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)

		requestsTotal.WithLabelValues(route, fmt.Sprintf("%d", ww.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Msg("Request served")
	})
}

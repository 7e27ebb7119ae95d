package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/reise-data/ssot-api/pkg/cache"
	"github.com/reise-data/ssot-api/pkg/calendar"
	"github.com/reise-data/ssot-api/pkg/daterange"
	"github.com/reise-data/ssot-api/pkg/freshness"
	"github.com/reise-data/ssot-api/pkg/logging"
	"github.com/reise-data/ssot-api/pkg/warehouse"
)

// Route patterns served by this package.
const (
	RouteHealth     = "/v1/health"
	RouteManagement = "/v1/shopify/gestao"
)

// ServiceName identifies this service in the health payload.
const ServiceName = "ssot-api"

// Gateway is the warehouse boundary the handler depends on. The production
// implementation is *warehouse.Client; tests substitute a counting stub.
type Gateway interface {
	// ManagementReport returns the single aggregate row for the range, or
	// nil when the warehouse has no data for it.
	ManagementReport(ctx context.Context, r daterange.Range) (warehouse.Report, error)
}

// HandlerConfig holds the collaborators of the HTTP handler.
type HandlerConfig struct {
	Validator *daterange.Validator
	Policy    freshness.Policy
	Store     *cache.Store
	Gateway   Gateway
	Clock     calendar.Clock

	// Warehouse identity, reported by the health endpoint.
	BQProject  string
	BQDataset  string
	BQLocation string
}

// Handler serves the report and health routes.
type Handler struct {
	cfg    HandlerConfig
	logger zerolog.Logger
}

// NewHandler creates the handler. All collaborators are required except the
// health metadata fields.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	return &Handler{
		cfg:    cfg,
		logger: logging.NewLogger("api"),
	}, nil
}

// Health reports liveness plus the warehouse identity and today's date in
// the reporting timezone.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"service":     ServiceName,
		"today_sp":    h.cfg.Clock.Today(),
		"bq_project":  h.cfg.BQProject,
		"bq_dataset":  h.cfg.BQDataset,
		"bq_location": h.cfg.BQLocation,
	})
}

// ManagementReport answers the growth/funnel metrics for a date range.
func (h *Handler) ManagementReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rng, err := h.cfg.Validator.Validate(query.Get("start"), query.Get("end"))
	if err != nil {
		var verr *daterange.ValidationError
		if errors.As(err, &verr) {
			rejectedTotal.WithLabelValues(string(verr.Reason)).Inc()
		}
		h.logger.Warn().
			Str("route", RouteManagement).
			Str("start", query.Get("start")).
			Str("end", query.Get("end")).
			Err(err).
			Msg("Rejected report request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	today := h.cfg.Clock.Today()
	decision := h.cfg.Policy.Evaluate(rng, today)

	// The key covers the full original parameter set, not just start/end,
	// so any extra distinguishing parameter addresses its own entry.
	key := cache.Key{Route: RouteManagement, Params: query}

	if value, ok := h.cfg.Store.Get(key); ok {
		h.logger.Debug().
			Str("route", RouteManagement).
			Str("start", rng.Start).
			Str("end", rng.End).
			Bool("closed", decision.Closed).
			Bool("cache_hit", true).
			Msg("Serving cached report")
		setCacheControl(w, decision)
		writeJSON(w, http.StatusOK, value)
		return
	}

	// The fetch and the cache write run to completion even if the client
	// disconnects mid-flight.
	report, err := h.cfg.Gateway.ManagementReport(context.WithoutCancel(r.Context()), rng)
	if err != nil {
		var gerr *warehouse.GatewayError
		reason := warehouse.ReasonUnknown
		if errors.As(err, &gerr) {
			reason = gerr.Reason
		}
		h.logger.Error().
			Str("route", RouteManagement).
			Str("start", rng.Start).
			Str("end", rng.End).
			Str("reason", string(reason)).
			Err(err).
			Msg("Report fetch failed")
		writeError(w, http.StatusBadGateway, "Falha ao consultar o data warehouse.")
		return
	}

	h.cfg.Store.Set(key, report, decision.TTL)

	h.logger.Debug().
		Str("route", RouteManagement).
		Str("start", rng.Start).
		Str("end", rng.End).
		Bool("closed", decision.Closed).
		Dur("ttl", decision.TTL).
		Bool("cache_hit", false).
		Msg("Fetched and cached report")

	setCacheControl(w, decision)
	writeJSON(w, http.StatusOK, report)
}

// setCacheControl advertises the policy's nominal TTL for the current
// freshness class, never the cached entry's remaining lifetime.
func setCacheControl(w http.ResponseWriter, d freshness.Decision) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", d.MaxAge()))
}

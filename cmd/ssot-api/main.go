// Command ssot-api serves the growth/funnel metrics API backed by BigQuery,
// with freshness-aware response caching.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reise-data/ssot-api/pkg/api"
	"github.com/reise-data/ssot-api/pkg/cache"
	"github.com/reise-data/ssot-api/pkg/calendar"
	"github.com/reise-data/ssot-api/pkg/config"
	"github.com/reise-data/ssot-api/pkg/daterange"
	"github.com/reise-data/ssot-api/pkg/freshness"
	"github.com/reise-data/ssot-api/pkg/logging"
	"github.com/reise-data/ssot-api/pkg/warehouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	clock, err := calendar.NewSystemClock()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load reporting timezone")
	}

	ctx := context.Background()
	gateway, err := warehouse.NewClient(ctx, warehouse.Config{
		Project:        cfg.BQProject,
		Dataset:        cfg.BQDataset,
		Location:       cfg.BQLocation,
		MaxBytesBilled: cfg.MaxBytesBilled,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create warehouse client")
	}
	defer gateway.Close()

	handler, err := api.NewHandler(api.HandlerConfig{
		Validator:  daterange.NewValidator(cfg.MaxRangeDays),
		Policy: freshness.Policy{
			TTLClosed:   cfg.TTLClosed(),
			TTLIntraday: cfg.TTLIntraday(),
		},
		Store:      cache.NewStore(),
		Gateway:    gateway,
		Clock:      clock,
		BQProject:  cfg.BQProject,
		BQDataset:  cfg.BQDataset,
		BQLocation: cfg.BQLocation,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create handler")
	}

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins:  cfg.AllowedOrigins(),
		RateLimitReqs:   cfg.RateLimitReqs,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	logger.Info().
		Int("port", cfg.Port).
		Str("bq_project", cfg.BQProject).
		Str("bq_dataset", cfg.BQDataset).
		Str("bq_location", cfg.BQLocation).
		Int("ttl_intraday_seconds", cfg.TTLIntradaySeconds).
		Int("ttl_closed_seconds", cfg.TTLClosedSeconds).
		Msg("Server started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

package warehouse

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"github.com/reise-data/ssot-api/pkg/daterange"
	"github.com/reise-data/ssot-api/pkg/logging"
)

// Prometheus metrics for warehouse queries.
var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssot_warehouse_queries_total",
		Help: "Total warehouse queries by status",
	}, []string{"status"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ssot_warehouse_query_duration_seconds",
		Help:    "Warehouse query duration in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	queryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssot_warehouse_query_errors_total",
		Help: "Total warehouse query failures by reason",
	}, []string{"reason"})

	bytesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ssot_warehouse_bytes_processed_total",
		Help: "Total bytes processed by warehouse queries",
	})
)

// DefaultMaxBytesBilled caps per-query billed bytes at 5 GiB. It is a
// runaway-cost guard, not a correctness mechanism.
const DefaultMaxBytesBilled = int64(5) * 1024 * 1024 * 1024

// Report is the single aggregate result row of the management query,
// opaque to the caller. A nil Report is a valid "no data" result.
type Report map[string]any

// Config holds the BigQuery connection settings.
type Config struct {
	// Project is the GCP project the views live in.
	Project string

	// Dataset is the mart dataset (e.g. "mart_growth_us").
	Dataset string

	// Location is the BigQuery job location (e.g. "US").
	Location string

	// MaxBytesBilled caps per-query billed bytes. Zero means
	// DefaultMaxBytesBilled.
	MaxBytesBilled int64
}

// Client runs the management report query against BigQuery.
type Client struct {
	bq     *bigquery.Client
	sql    string
	config Config
	logger zerolog.Logger
}

// NewClient creates a warehouse client. Credentials are resolved through
// Application Default Credentials.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("warehouse project is required")
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("warehouse dataset is required")
	}
	if cfg.MaxBytesBilled <= 0 {
		cfg.MaxBytesBilled = DefaultMaxBytesBilled
	}

	bq, err := bigquery.NewClient(ctx, cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}

	return &Client{
		bq:     bq,
		sql:    renderManagementReportSQL(cfg.Project, cfg.Dataset),
		config: cfg,
		logger: logging.NewLogger("warehouse"),
	}, nil
}

// ManagementReport runs the report query for the validated range and
// returns the single aggregate row, or nil when the warehouse returns no
// rows. Dates are bound as typed DATE parameters; calendar-invalid dates
// that slipped through the syntactic validator are rejected here.
func (c *Client) ManagementReport(ctx context.Context, r daterange.Range) (Report, error) {
	start, err := civil.ParseDate(r.Start)
	if err != nil {
		queryErrors.WithLabelValues(string(ReasonInvalidQuery)).Inc()
		return nil, &GatewayError{
			Reason:  ReasonInvalidQuery,
			Message: fmt.Sprintf("start %q is not a calendar date", r.Start),
			Err:     err,
		}
	}
	end, err := civil.ParseDate(r.End)
	if err != nil {
		queryErrors.WithLabelValues(string(ReasonInvalidQuery)).Inc()
		return nil, &GatewayError{
			Reason:  ReasonInvalidQuery,
			Message: fmt.Sprintf("end %q is not a calendar date", r.End),
			Err:     err,
		}
	}

	q := c.bq.Query(c.sql)
	q.Location = c.config.Location
	q.MaxBytesBilled = c.config.MaxBytesBilled
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: start},
		{Name: "end_date", Value: end},
	}

	startTime := time.Now()
	defer func() {
		queryDuration.Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("start", r.Start).
		Str("end", r.End).
		Str("location", c.config.Location).
		Int64("max_bytes_billed", c.config.MaxBytesBilled).
		Msg("Submitting management report query")

	job, err := q.Run(ctx)
	if err != nil {
		return nil, c.fail("submit query job", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, c.fail("wait for query job", err)
	}
	if err := status.Err(); err != nil {
		return nil, c.fail("query job failed", err)
	}
	if status.Statistics != nil {
		bytesProcessed.Add(float64(status.Statistics.TotalBytesProcessed))
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, c.fail("read query results", err)
	}

	var row map[string]bigquery.Value
	if err := it.Next(&row); err != nil {
		if err == iterator.Done {
			// No rows is a valid empty result, not an error.
			queriesTotal.WithLabelValues("empty").Inc()
			return nil, nil
		}
		return nil, c.fail("scan result row", err)
	}

	queriesTotal.WithLabelValues("ok").Inc()

	report := make(Report, len(row))
	for name, value := range row {
		report[name] = value
	}
	return report, nil
}

// fail wraps a BigQuery error into a GatewayError, records it, and logs the
// provider detail that is never exposed to clients.
func (c *Client) fail(msg string, err error) *GatewayError {
	reason := classify(err)
	queriesTotal.WithLabelValues("error").Inc()
	queryErrors.WithLabelValues(string(reason)).Inc()

	c.logger.Error().
		Err(err).
		Str("reason", string(reason)).
		Msg("Warehouse query failed")

	return &GatewayError{Reason: reason, Message: msg, Err: err}
}

// Close releases the underlying BigQuery client.
func (c *Client) Close() error {
	return c.bq.Close()
}

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssot_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ssot_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds by route",
		Buckets: []float64{0.005, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"route"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ssot_requests_rejected_total",
		Help: "Report requests rejected by range validation, by reason",
	}, []string{"reason"})
)

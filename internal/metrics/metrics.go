package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// The whole API funnels through one dispatch path, so requests are
	// labelled by action rather than by path.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aguada_http_requests_total",
			Help: "Total HTTP requests by method, action and status code",
		},
		[]string{"method", "action", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aguada_http_request_duration_seconds",
			Help:    "HTTP request latency by method and action",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "action"},
	)

	ReportsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aguada_reports_created_total",
			Help: "Service reports created",
		},
	)

	ReportsValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aguada_reports_validated_total",
			Help: "Service reports locked by supervisor validation",
		},
	)

	SupplyEventsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aguada_supply_events_total",
			Help: "Inter-reservoir supply events recorded",
		},
	)

	BalanceComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aguada_balance_computations_total",
			Help: "Water balance computations stored",
		},
	)
)

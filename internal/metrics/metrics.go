// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tailor_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tailor_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	BillsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tailor_bills_committed_total",
		Help: "Bills committed with their stock deductions.",
	})

	BillCommitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tailor_bill_commit_failures_total",
		Help: "Bill commits rejected, by reason.",
	}, []string{"reason"})

	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tailor_payments_recorded_total",
		Help: "Payments appended to bills.",
	})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tailor_stock_adjustments_total",
		Help: "Stock ledger entries written, by kind.",
	}, []string{"kind"})
)

// Failure reasons for BillCommitFailures.
const (
	ReasonValidation   = "validation"
	ReasonInsufficient = "insufficient_stock"
	ReasonStorage      = "storage"
)

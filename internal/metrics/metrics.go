// Package metrics содержит коллекторы Prometheus сервиса.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_http_requests_total",
			Help: "Number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PaymentsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_payments_recorded_total",
			Help: "Number of recorded real-money payments",
		},
	)

	ExportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_exports_generated_total",
			Help: "Number of generated season exports",
		},
		[]string{"format"},
	)

	ExportRowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_export_rows_skipped_total",
			Help: "Number of registrations skipped in exports because of missing links",
		},
	)

	SummaryCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_summary_cache_requests_total",
			Help: "Product summary cache lookups",
		},
		[]string{"result"},
	)

	EndDatesBackfilled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_end_dates_backfilled_total",
			Help: "Number of products whose end date was computed by the worker",
		},
	)

	EndDateBackfillErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_end_date_backfill_errors_total",
			Help: "Number of products the worker failed to backfill",
		},
	)
)

var registerOnce sync.Once

// Register регистрирует коллекторы в реестре по умолчанию; повторные вызовы ничего не делают
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPRequestDuration,
			PaymentsRecorded,
			ExportsGenerated,
			ExportRowsSkipped,
			SummaryCache,
			EndDatesBackfilled,
			EndDateBackfillErrors,
		)
	})
}

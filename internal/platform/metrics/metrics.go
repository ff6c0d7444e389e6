package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsTotal        prometheus.Counter
	PartialRegistrationsTotal prometheus.Counter
	LoginsTotal               *prometheus.CounterVec
	RoleReconciliationsTotal  prometheus.Counter
	RecordsAddedTotal         prometheus.Counter
	RecordViewsTotal          *prometheus.CounterVec
	LedgerCallDuration        *prometheus.HistogramVec
	HTTPRequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medledger_registrations_total",
			Help: "Total number of fully completed registrations",
		}),
		PartialRegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medledger_partial_registrations_total",
			Help: "Registrations where the credential write landed but the ledger mirror failed",
		}),
		LoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medledger_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		RoleReconciliationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medledger_role_reconciliations_total",
			Help: "Logins where the ledger role overrode the credential store role",
		}),
		RecordsAddedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medledger_records_added_total",
			Help: "Medical records appended through the gateway",
		}),
		RecordViewsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medledger_record_views_total",
			Help: "Record view requests by projection",
		}, []string{"projection"}),
		LedgerCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medledger_ledger_call_duration_seconds",
			Help:    "Latency of remote ledger calls by method and outcome",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, []string{"method", "outcome"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medledger_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// ObserveLedgerCall records one remote ledger call.
func (m *Metrics) ObserveLedgerCall(method, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.LedgerCallDuration.WithLabelValues(method, outcome).Observe(time.Since(start).Seconds())
}

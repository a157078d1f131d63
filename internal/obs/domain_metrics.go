package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PresaleOperationsTotal counts pre-sale write operations by outcome.
	PresaleOperationsTotal *prometheus.CounterVec
	// PresaleTransitionsTotal counts status change attempts by edge and outcome.
	PresaleTransitionsTotal *prometheus.CounterVec
	// StockValidationsTotal counts stock checks by outcome.
	StockValidationsTotal *prometheus.CounterVec
	// EventJobsTotal tracks background event job outcomes.
	EventJobsTotal *prometheus.CounterVec
	// ReportCacheTotal counts report cache lookups.
	ReportCacheTotal *prometheus.CounterVec
	// DBQueryDuration observes SQL latency by statement verb.
	DBQueryDuration *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PresaleOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presale_operations_total",
			Help:      "Count of pre-sale create, update and delete outcomes.",
		}, []string{"operation", "result"})
		PresaleTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presale_transitions_total",
			Help:      "Count of pre-sale status change attempts.",
		}, []string{"from", "to", "result"})
		StockValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_validations_total",
			Help:      "Count of stock validations by outcome.",
		}, []string{"result"})
		EventJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_jobs_total",
			Help:      "Count of processed domain event jobs by topic and outcome.",
		}, []string{"topic", "result"})
		ReportCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "Count of report cache lookups by outcome.",
		}, []string{"report", "result"})
		DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_ms",
			Help:      "SQL statement latency in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
		}, []string{"operation", "result"})

		PresaleOperationsTotal = register(reg, PresaleOperationsTotal)
		PresaleTransitionsTotal = register(reg, PresaleTransitionsTotal)
		StockValidationsTotal = register(reg, StockValidationsTotal)
		EventJobsTotal = register(reg, EventJobsTotal)
		ReportCacheTotal = register(reg, ReportCacheTotal)
		DBQueryDuration = register(reg, DBQueryDuration)
	})
}

// CountPresaleOperation increments PresaleOperationsTotal when registered.
func CountPresaleOperation(operation string, err error) {
	if PresaleOperationsTotal == nil {
		return
	}
	PresaleOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

// CountTransition increments PresaleTransitionsTotal when registered.
func CountTransition(from, to string, err error) {
	if PresaleTransitionsTotal == nil {
		return
	}
	PresaleTransitionsTotal.WithLabelValues(from, to, resultLabel(err)).Inc()
}

// CountStockValidation increments StockValidationsTotal when registered.
func CountStockValidation(valid bool) {
	if StockValidationsTotal == nil {
		return
	}
	result := "valid"
	if !valid {
		result = "invalid"
	}
	StockValidationsTotal.WithLabelValues(result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

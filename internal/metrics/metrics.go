package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	pengajuanSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pengajuan_submitted_total",
			Help: "Total number of pengajuan submitted",
		},
	)

	reassignmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pengajuan_reassignments_total",
			Help: "Total number of pengajuan reassignments",
		},
	)

	submitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pengajuan_submit_failures_total",
			Help: "Total number of failed submit operations",
		},
		[]string{"reason"}, // no_eligible_handler, lock_timeout, validation, store
	)

	lockWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assignment_lock_wait_seconds",
			Help:    "Time spent waiting for assignment engine locks",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
		[]string{"key"},
	)

	handlerWorkload = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "handler_workload",
			Help: "Current active-assignment count per handler",
		},
		[]string{"email"},
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var once sync.Once

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(pengajuanSubmittedTotal)
	prometheus.MustRegister(reassignmentsTotal)
	prometheus.MustRegister(submitFailuresTotal)
	prometheus.MustRegister(lockWaitSeconds)
	prometheus.MustRegister(handlerWorkload)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)

	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one handled HTTP request.
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordPengajuanSubmitted records a successful submit.
func RecordPengajuanSubmitted() {
	pengajuanSubmittedTotal.Inc()
}

// RecordReassignment records a successful reassignment.
func RecordReassignment() {
	reassignmentsTotal.Inc()
}

// RecordSubmitFailure records a failed submit by reason.
func RecordSubmitFailure(reason string) {
	submitFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveLockWait records how long a caller waited for an engine lock.
func ObserveLockWait(key string, seconds float64) {
	lockWaitSeconds.WithLabelValues(key).Observe(seconds)
}

// SetHandlerWorkload updates the workload gauge for one handler.
func SetHandlerWorkload(email string, workload int) {
	handlerWorkload.WithLabelValues(email).Set(float64(workload))
}

// UpdateDatabaseConnections refreshes the connection pool gauges.
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}

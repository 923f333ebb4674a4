package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses used as the "status" label of ta_engine_runs_total.
const (
	RunStatusOK           = "ok"
	RunStatusInsufficient = "insufficient_history"
	RunStatusNoData       = "no_data"
	RunStatusError        = "error"
)

var (
	// Engine metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_engine_runs_total",
			Help: "Total number of indicator runs by outcome",
		},
		[]string{"status"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ta_engine_run_duration_seconds",
			Help:    "Duration of a full indicator run",
			Buckets: prometheus.DefBuckets,
		},
	)

	rowsDropped = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ta_engine_rows_dropped",
			Help: "Rows removed by the cleanup step in the last run",
		},
	)

	rowsOutput = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ta_engine_rows_output",
			Help: "Rows left in the indicator table of the last run",
		},
	)

	// Market data metrics
	providerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_engine_provider_requests_total",
			Help: "Market data requests by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ta_engine_cache_lookups_total",
			Help: "Price cache lookups by backend and result",
		},
		[]string{"cache", "result"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(rowsDropped)
	prometheus.MustRegister(rowsOutput)
	prometheus.MustRegister(providerRequests)
	prometheus.MustRegister(cacheLookups)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRun records the outcome of one engine run
func RecordRun(status string, duration time.Duration, dropped, output int) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
	rowsDropped.Set(float64(dropped))
	rowsOutput.Set(float64(output))
}

// RecordRunFailure records a run that did not produce a table
func RecordRunFailure(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(duration.Seconds())
}

// RecordProviderRequest records one market data request
func RecordProviderRequest(provider string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	providerRequests.WithLabelValues(provider, status).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(cache, result).Inc()
}

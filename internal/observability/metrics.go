// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Gateway metrics
	FeedRequestsTotal  *prometheus.CounterVec
	FeedRequestLatency *prometheus.HistogramVec
	CandidatesFetched  prometheus.Counter
	PairsRejected      *prometheus.CounterVec

	// Scanner metrics
	ScanCyclesTotal    *prometheus.CounterVec
	ScanCycleDuration  prometheus.Histogram
	TokensScored       *prometheus.CounterVec
	SeenTokensTracked  prometheus.Gauge
	LastSuccessfulScan prometheus.Gauge

	// Ledger metrics
	PositionsOpened prometheus.Counter
	PositionsClosed *prometheus.CounterVec
	OpenPositions   prometheus.Gauge
	Balance         prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sniper_terminal"
	}

	return &Metrics{
		// Gateway metrics
		FeedRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "feed_requests_total",
			Help:      "Total number of market feed requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		FeedRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "feed_request_latency_seconds",
			Help:      "Market feed request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		CandidatesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "candidates_fetched_total",
			Help:      "Total number of token candidates fetched from the feed",
		}),
		PairsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "pairs_rejected_total",
			Help:      "Total number of feed entries rejected by reason",
		}, []string{"reason"}),

		// Scanner metrics
		ScanCyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "cycles_total",
			Help:      "Total number of scan cycles by status",
		}, []string{"status"}),
		ScanCycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "cycle_duration_seconds",
			Help:      "Scan cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		TokensScored: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "tokens_scored_total",
			Help:      "Total number of tokens scored by strength tier",
		}, []string{"strength"}),
		SeenTokensTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "seen_tokens_tracked",
			Help:      "Number of token addresses in the in-process dedup set",
		}),
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last successful scan cycle",
		}),

		// Ledger metrics
		PositionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "positions_opened_total",
			Help:      "Total number of simulated positions opened",
		}),
		PositionsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "positions_closed_total",
			Help:      "Total number of simulated positions closed by reason",
		}, []string{"reason"}),
		OpenPositions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "open_positions",
			Help:      "Current number of open positions",
		}),
		Balance: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "balance_sol",
			Help:      "Current simulated balance in SOL",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFeedRequest records a market feed request outcome with latency.
func RecordFeedRequest(endpoint, status string, seconds float64) {
	DefaultMetrics.FeedRequestsTotal.WithLabelValues(endpoint, status).Inc()
	DefaultMetrics.FeedRequestLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordCandidatesFetched adds to the fetched candidates counter.
func RecordCandidatesFetched(n int) {
	DefaultMetrics.CandidatesFetched.Add(float64(n))
}

// RecordPairRejected increments the rejected-entries counter.
func RecordPairRejected(reason string) {
	DefaultMetrics.PairsRejected.WithLabelValues(reason).Inc()
}

// RecordScanCycle records a completed scan cycle.
func RecordScanCycle(status string, durationSeconds float64) {
	DefaultMetrics.ScanCyclesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanCycleDuration.Observe(durationSeconds)
}

// RecordTokenScored increments the per-tier scoring counter.
func RecordTokenScored(strength string) {
	DefaultMetrics.TokensScored.WithLabelValues(strength).Inc()
}

// RecordPositionOpened increments the opened positions counter.
func RecordPositionOpened() {
	DefaultMetrics.PositionsOpened.Inc()
}

// RecordPositionClosed increments the closed positions counter.
func RecordPositionClosed(reason string) {
	DefaultMetrics.PositionsClosed.WithLabelValues(reason).Inc()
}

// UpdateBalance updates the balance gauge.
func UpdateBalance(balance float64) {
	DefaultMetrics.Balance.Set(balance)
}

// UpdateOpenPositions updates the open positions gauge.
func UpdateOpenPositions(n int) {
	DefaultMetrics.OpenPositions.Set(float64(n))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records ledger operations submitted through the node's RPC
// surface, segmented by ledger and method.
type LedgerMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *LedgerMetrics

	gatewayMetricsOnce sync.Once
	gatewayRegistry    *GatewayMetrics
)

// Ledger returns the lazily-initialised ledger metrics registry.
func Ledger() *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "seatrace",
				Subsystem: "ledger",
				Name:      "requests_total",
				Help:      "Total ledger operations segmented by ledger, method, and outcome.",
			}, []string{"ledger", "method", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "seatrace",
				Subsystem: "ledger",
				Name:      "errors_total",
				Help:      "Total ledger operation failures segmented by ledger, method, and code.",
			}, []string{"ledger", "method", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "seatrace",
				Subsystem: "ledger",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for ledger operation handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"ledger", "method"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.requests,
			ledgerRegistry.errors,
			ledgerRegistry.latency,
		)
	})
	return ledgerRegistry
}

// Observe records the outcome of a ledger operation. The code is the HTTP
// status written on failure, zero on success.
func (m *LedgerMetrics) Observe(ledger, method string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	if ledger == "" {
		ledger = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	outcome := "success"
	if code != 0 {
		outcome = "error"
		m.errors.WithLabelValues(ledger, method, fmt.Sprintf("%d", code)).Inc()
	}
	m.requests.WithLabelValues(ledger, method, outcome).Inc()
	m.latency.WithLabelValues(ledger, method).Observe(duration.Seconds())
}

// GatewayMetrics records read traffic served by the REST gateway.
type GatewayMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// Gateway returns the singleton metrics registry for the REST gateway.
func Gateway() *GatewayMetrics {
	gatewayMetricsOnce.Do(func() {
		gatewayRegistry = &GatewayMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "seatrace",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total gateway requests segmented by route and status code.",
			}, []string{"route", "status"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "seatrace",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for gateway routes.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
		}
		prometheus.MustRegister(
			gatewayRegistry.requests,
			gatewayRegistry.latency,
		)
	})
	return gatewayRegistry
}

// Observe records a completed gateway request.
func (m *GatewayMetrics) Observe(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requests.WithLabelValues(route, fmt.Sprintf("%d", status)).Inc()
	m.latency.WithLabelValues(route).Observe(duration.Seconds())
}

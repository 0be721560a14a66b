// Package metrics exposes Prometheus collectors for the HTTP server and live upload slots.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrdesk/internal/domain"
	"hrdesk/internal/upload"
)

const namespace = "hrdesk"

// Metrics owns a private registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	validationFailures *prometheus.CounterVec
	transfersTotal     *prometheus.CounterVec
	transferDuration   *prometheus.HistogramVec
	transfersInFlight  prometheus.Gauge
	liveSlots          prometheus.Gauge
	decisionsTotal     *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		},
	)
	validationFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "validation_failures_total",
			Help:      "Rejected file selections by slot and error kind.",
		},
		[]string{"slot", "kind"},
	)
	transfersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "transfers_total",
			Help:      "Finished transfers by slot and outcome.",
		},
		[]string{"slot", "status"},
	)
	transferDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "transfer_duration_seconds",
			Help:      "Transfer duration in seconds by slot.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"slot"},
	)
	transfersInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "transfers_in_flight",
			Help:      "Number of transfers in progress.",
		},
	)
	liveSlots := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "live_slots",
			Help:      "Number of upload slots held in memory.",
		},
	)
	decisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "decisions_total",
			Help:      "Verification decisions applied by resulting status.",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		validationFailures,
		transfersTotal,
		transferDuration,
		transfersInFlight,
		liveSlots,
		decisionsTotal,
	)

	return &Metrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		validationFailures: validationFailures,
		transfersTotal:     transfersTotal,
		transferDuration:   transferDuration,
		transfersInFlight:  transfersInFlight,
		liveSlots:          liveSlots,
		decisionsTotal:     decisionsTotal,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ValidationFailed(slotID string, kind upload.ErrorKind) {
	m.validationFailures.WithLabelValues(slotID, string(kind)).Inc()
}

func (m *Metrics) TransferStarted(string) {
	m.transfersInFlight.Inc()
}

func (m *Metrics) TransferFinished(slotID string, err error, elapsed time.Duration) {
	m.transfersInFlight.Dec()

	status := "success"
	switch {
	case errors.Is(err, context.Canceled):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	m.transfersTotal.WithLabelValues(slotID, status).Inc()
	m.transferDuration.WithLabelValues(slotID).Observe(elapsed.Seconds())
}

func (m *Metrics) LiveSlots(n int) {
	m.liveSlots.Set(float64(n))
}

// DecisionApplied counts a verification decision. It is registered as a document decision listener.
func (m *Metrics) DecisionApplied(doc *domain.EmployeeDocument) {
	m.decisionsTotal.WithLabelValues(string(doc.VerificationStatus)).Inc()
}

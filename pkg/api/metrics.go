package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/pgbcp/pkg/inspect"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Stream decoding metrics
	streamsTotal  *prometheus.CounterVec
	tuplesDecoded prometheus.Counter
	fieldsDecoded *prometheus.CounterVec
	payloadBytes  prometheus.Counter

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgbcp_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pgbcp_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pgbcp_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		streamsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgbcp_streams_total",
				Help: "Total number of binary copy streams analyzed",
			},
			[]string{"status"},
		),

		tuplesDecoded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pgbcp_tuples_decoded_total",
				Help: "Total number of tuples decoded across all streams",
			},
		),

		fieldsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgbcp_fields_decoded_total",
				Help: "Total number of fields decoded across all streams",
			},
			[]string{"kind"},
		),

		payloadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pgbcp_payload_bytes_total",
				Help: "Total payload bytes decoded across all streams",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgbcp_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStream records one analyzed stream and, when it decoded cleanly,
// its tuple/field/byte volume.
func (m *Metrics) RecordStream(report *inspect.Report, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.streamsTotal.WithLabelValues(status).Inc()

	if report == nil {
		return
	}
	m.tuplesDecoded.Add(float64(report.Tuples))
	m.fieldsDecoded.WithLabelValues("value").Add(float64(report.Fields - report.Nulls))
	m.fieldsDecoded.WithLabelValues("null").Add(float64(report.Nulls))
	m.payloadBytes.Add(float64(report.PayloadBytes))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

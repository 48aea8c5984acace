package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospecting_leads_processed_total",
			Help: "Total number of prospected candidates by terminal status",
		},
		[]string{"status"},
	)

	messagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospecting_messages_sent_total",
			Help: "Total number of first-contact messages delivered",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospecting_integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)

	quotaUsedToday = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prospecting_quota_used_today",
			Help: "Messages sent today per tenant",
		},
		[]string{"tenant"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps tenant ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

// PrometheusRecorder liga as métricas do motor de prospecção ao registry global.
type PrometheusRecorder struct{}

func NewPrometheusRecorder() PrometheusRecorder {
	return PrometheusRecorder{}
}

func (PrometheusRecorder) RecordLeadOutcome(status entity.LeadStatus) {
	leadsProcessed.WithLabelValues(string(status)).Inc()
	if status == entity.StatusMessageSent {
		messagesSent.Inc()
	}
}

func (PrometheusRecorder) RecordIntegrationError(service string) {
	RecordIntegrationError(service)
}

func (PrometheusRecorder) SetQuotaUsed(tenantID string, used int) {
	quotaUsedToday.WithLabelValues(tenantID).Set(float64(used))
}

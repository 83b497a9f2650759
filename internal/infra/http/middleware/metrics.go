package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
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

	leadsQualified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_qualified_total",
			Help: "Total number of leads that went through the whole pipeline",
		},
		[]string{"qualification"},
	)

	stageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Total number of pipeline stage failures",
		},
		[]string{"stage", "kind", "tolerated"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of reply notifications by delivery mode",
		},
		[]string{"mode", "status"},
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

// routePattern usa o padrão da rota do chi para não explodir a cardinalidade
// com paths arbitrários.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// PipelineMetrics implements usecase.PipelineMetrics on the Prometheus
// counters above.
type PipelineMetrics struct{}

func (PipelineMetrics) LeadQualified(q entity.Qualification) {
	leadsQualified.WithLabelValues(string(q)).Inc()
}

func (PipelineMetrics) StageFailed(stage string, kind usecase.ErrorKind, tolerated bool) {
	stageFailures.WithLabelValues(stage, string(kind), strconv.FormatBool(tolerated)).Inc()
}

func RecordNotification(mode, status string) {
	notificationsTotal.WithLabelValues(mode, status).Inc()
}

// InstrumentedNotifier conta cada tentativa de notificação por modo.
type InstrumentedNotifier struct {
	Next usecase.Notifier
	Mode string
}

func (n InstrumentedNotifier) Notify(ctx context.Context, lead *entity.Lead) error {
	err := n.Next.Notify(ctx, lead)
	if err != nil {
		RecordNotification(n.Mode, "error")
		return err
	}
	RecordNotification(n.Mode, "ok")
	return nil
}

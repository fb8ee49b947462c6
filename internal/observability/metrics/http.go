package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	wizardActionsTotal       *prometheus.CounterVec
	questionGenerationsTotal *prometheus.CounterVec
	questionsGenerated       *prometheus.HistogramVec
	documentUploadsTotal     *prometheus.CounterVec
	summaryExportsTotal      *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxbuddy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxbuddy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taxbuddy",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	wizardActionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxbuddy",
			Subsystem: "wizard",
			Name:      "actions_total",
			Help:      "Total dispatched wizard actions by type.",
		},
		[]string{"service", "action"},
	)
	questionGenerationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxbuddy",
			Subsystem: "questions",
			Name:      "generations_total",
			Help:      "Total question set generations by source.",
		},
		[]string{"service", "source"},
	)
	questionsGenerated := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxbuddy",
			Subsystem: "questions",
			Name:      "generated_count",
			Help:      "Distribution of top-level questions per generation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "source"},
	)
	documentUploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxbuddy",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads by type.",
		},
		[]string{"service", "type"},
	)
	summaryExportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxbuddy",
			Subsystem: "summary",
			Name:      "exports_total",
			Help:      "Total generated summary exports by format.",
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		wizardActionsTotal,
		questionGenerationsTotal,
		questionsGenerated,
		documentUploadsTotal,
		summaryExportsTotal,
	)

	return &HTTPServerMetrics{
		registry:                 registry,
		requestTotal:             requestTotal,
		requestDuration:          requestDuration,
		requestInFlight:          requestInFlight,
		wizardActionsTotal:       wizardActionsTotal,
		questionGenerationsTotal: questionGenerationsTotal,
		questionsGenerated:       questionsGenerated,
		documentUploadsTotal:     documentUploadsTotal,
		summaryExportsTotal:      summaryExportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses per-session and per-document URLs so metric
// cardinality stays bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/sessions/") {
		return path
	}

	rest := strings.TrimPrefix(path, "/v1/sessions/")
	idx := strings.Index(rest, "/")
	if idx < 0 {
		return "/v1/sessions/{session_id}"
	}

	suffix := rest[idx:]
	if strings.HasPrefix(suffix, "/documents/") {
		return "/v1/sessions/{session_id}/documents/{document_id}"
	}
	return "/v1/sessions/{session_id}" + suffix
}

func (m *HTTPServerMetrics) RecordWizardAction(service, action string) {
	if action == "" {
		action = "unknown"
	}
	m.wizardActionsTotal.WithLabelValues(service, action).Inc()
}

func (m *HTTPServerMetrics) RecordQuestionGeneration(service, source string, count int) {
	if source == "" {
		source = "unknown"
	}
	m.questionGenerationsTotal.WithLabelValues(service, source).Inc()
	m.questionsGenerated.WithLabelValues(service, source).Observe(float64(count))
}

func (m *HTTPServerMetrics) RecordDocumentUpload(service, docType string) {
	if docType == "" {
		docType = "unknown"
	}
	m.documentUploadsTotal.WithLabelValues(service, docType).Inc()
}

func (m *HTTPServerMetrics) RecordSummaryExport(service, format string) {
	m.summaryExportsTotal.WithLabelValues(service, format).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}

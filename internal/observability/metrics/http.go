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

	uploadsTotal       *prometheus.CounterVec
	kybRunsTotal       *prometheus.CounterVec
	kybRunDuration     *prometheus.HistogramVec
	kybDocumentsFolded *prometheus.HistogramVec
	kybRiskScore       *prometheus.HistogramVec
	kybExceptionsTotal *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kyb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kyb",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyb",
			Subsystem: "ingest",
			Name:      "uploads_total",
			Help:      "Total document uploads by status.",
		},
		[]string{"service", "status"},
	)
	kybRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyb",
			Subsystem: "profile",
			Name:      "runs_total",
			Help:      "Total KYB generation runs by status.",
		},
		[]string{"service", "status"},
	)
	kybRunDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kyb",
			Subsystem: "profile",
			Name:      "run_duration_seconds",
			Help:      "KYB generation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	kybDocumentsFolded := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kyb",
			Subsystem: "profile",
			Name:      "documents_folded",
			Help:      "Distribution of documents folded per KYB run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	kybRiskScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kyb",
			Subsystem: "profile",
			Name:      "risk_score",
			Help:      "Distribution of final financial risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)
	kybExceptionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyb",
			Subsystem: "profile",
			Name:      "exceptions_total",
			Help:      "Total compliance exceptions raised by severity.",
		},
		[]string{"service", "severity"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyb",
			Subsystem: "export",
			Name:      "workbooks_total",
			Help:      "Total profile workbook exports by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		kybRunsTotal,
		kybRunDuration,
		kybDocumentsFolded,
		kybRiskScore,
		kybExceptionsTotal,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		uploadsTotal:       uploadsTotal,
		kybRunsTotal:       kybRunsTotal,
		kybRunDuration:     kybRunDuration,
		kybDocumentsFolded: kybDocumentsFolded,
		kybRiskScore:       kybRiskScore,
		kybExceptionsTotal: kybExceptionsTotal,
		exportsTotal:       exportsTotal,
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

// normalizePath collapses identifiers so label cardinality stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/companies/"):
		rest := strings.TrimPrefix(path, "/v1/companies/")
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/v1/companies/{company_id}" + rest[idx:]
		}
		return "/v1/companies/{company_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service string, err error) {
	m.uploadsTotal.WithLabelValues(service, statusLabel(err)).Inc()
}

func (m *HTTPServerMetrics) RecordKYBRun(service string, documentCount, riskScore int, duration time.Duration, err error) {
	m.kybRunsTotal.WithLabelValues(service, statusLabel(err)).Inc()
	m.kybRunDuration.WithLabelValues(service).Observe(duration.Seconds())
	if err != nil {
		return
	}
	m.kybDocumentsFolded.WithLabelValues(service).Observe(float64(documentCount))
	m.kybRiskScore.WithLabelValues(service).Observe(float64(riskScore))
}

func (m *HTTPServerMetrics) RecordException(service, severity string) {
	if severity == "" {
		severity = "unknown"
	}
	m.kybExceptionsTotal.WithLabelValues(service, severity).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service string, err error) {
	m.exportsTotal.WithLabelValues(service, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
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

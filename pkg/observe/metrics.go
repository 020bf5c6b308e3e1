// Package observe turns dispatch observer events and HTTP requests into
// Prometheus metrics and OpenTelemetry spans.
package observe

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sjc5/routekit/pkg/dispatch"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the request duration buckets.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. Layer counters are fed by Observer;
// request counters and durations by Wrap.
type Metrics struct {
	layers   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors. Registering twice on the same
// registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		layers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "layer_invocations_total",
			Help:        "Handlers run by the dispatcher, by routing path and handler kind",
			ConstLabels: config.ConstLabels,
		}, []string{"routing_path", "kind"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "handled_errors_total",
			Help:        "Errors passed to error handlers, by routing path",
			ConstLabels: config.ConstLabels,
		}, []string{"routing_path"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "HTTP requests served, by method and status",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),
	}
}

// Observer counts every handler a dispatcher runs.
func (m *Metrics) Observer() dispatch.Observer {
	return dispatch.Observer{
		OnHandleRequest: func(e dispatch.HandleRequestEvent) {
			m.layers.WithLabelValues(e.RoutingPath, "request").Inc()
		},
		OnHandleError: func(e dispatch.HandleErrorEvent) {
			m.layers.WithLabelValues(e.RoutingPath, "error").Inc()
			m.errors.WithLabelValues(e.RoutingPath).Inc()
		},
	}
}

// Wrap records the status and duration of each request served by next.
func (m *Metrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, strconv.Itoa(sw.code())).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// code is the sent status. A handler that wrote nothing got an implicit
// 200 from net/http.
func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

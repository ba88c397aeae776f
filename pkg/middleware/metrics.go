package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ostinato-fm/ostinato/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ostinato").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for activation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "ostinato",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for route activations.
type metrics struct {
	activationsTotal   *prometheus.CounterVec
	activationDuration *prometheus.HistogramVec
	activationErrors   *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	loaderErrors       *prometheus.CounterVec
}

var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		activationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "activations_total",
			Help:        "Total number of route activations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		activationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "activation_duration_seconds",
			Help:        "Route activation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		activationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "activation_errors_total",
			Help:        "Total number of route activation errors",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_resolutions_total",
			Help:        "Lazy component resolutions by outcome (hit, miss, error)",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		loaderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "loader_errors_total",
			Help:        "Total number of pre-render loader errors",
			ConstLabels: config.ConstLabels,
		}, []string{"route"}),
	}
}

// Prometheus creates middleware that records metrics for route activations.
//
// Metrics collected:
//   - ostinato_activations_total: Counter of activations by route and status
//   - ostinato_activation_duration_seconds: Histogram of activation duration
//   - ostinato_activation_errors_total: Counter of activation errors by type
//   - ostinato_lazy_resolutions_total: Counter of lazy resolutions by outcome
//   - ostinato_loader_errors_total: Counter of loader errors
//
// Expose them with promhttp; pkg/server does this on /metrics.
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
		route := ctx.Pattern()
		if route == "" {
			route = ctx.Path()
		}

		start := time.Now()
		err := next()
		m.activationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.activationErrors.WithLabelValues(route, categorizeError(err)).Inc()
		}
		m.activationsTotal.WithLabelValues(route, status).Inc()

		return err
	})
}

// RecordResolution records a lazy resolution outcome ("hit", "miss", "error").
// pkg/server calls this around Handle.Resolve.
func RecordResolution(route, outcome string) {
	if globalMetrics != nil {
		globalMetrics.resolutionsTotal.WithLabelValues(route, outcome).Inc()
	}
}

// RecordLoaderError records a pre-render loader failure.
func RecordLoaderError(route string) {
	if globalMetrics != nil {
		globalMetrics.loaderErrors.WithLabelValues(route).Inc()
	}
}

// categorizeError maps an error to a low-cardinality label value.
func categorizeError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "resolving"):
		return "resolution"
	case strings.Contains(msg, "loading"):
		return "loader"
	case strings.Contains(msg, "canceled"):
		return "canceled"
	default:
		return "internal"
	}
}

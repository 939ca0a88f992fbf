package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/flowgate/errors"
)

// MetricsRegistrar defines the interface for registering node-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(nodeName, metricName string, counter prometheus.Counter) error
	RegisterGauge(nodeName, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(nodeName, metricName string, histogram prometheus.Histogram) error
	RegisterCounterVec(nodeName, metricName string, counterVec *prometheus.CounterVec) error
	RegisterGaugeVec(nodeName, metricName string, gaugeVec *prometheus.GaugeVec) error
	RegisterHistogramVec(nodeName, metricName string, histogramVec *prometheus.HistogramVec) error
	Unregister(nodeName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core gateway metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	// Initialize and register core metrics
	registry.Metrics = NewMetrics()
	prometheusRegistry.MustRegister(registry.Metrics.collectors()...)

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core gateway metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register tracks and registers a collector under nodeName.metricName.
// All Register* entry points share this logic; op names the caller for
// error context.
func (r *MetricsRegistry) register(op, nodeName, metricName string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", nodeName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for node %s", metricName, nodeName),
			"MetricsRegistry", op, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", op,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", op,
			"failed to register collector with prometheus")
	}

	r.registeredMetrics[key] = collector
	return nil
}

// RegisterCounter registers a counter metric for a node
func (r *MetricsRegistry) RegisterCounter(nodeName, metricName string, counter prometheus.Counter) error {
	return r.register("RegisterCounter", nodeName, metricName, counter)
}

// RegisterGauge registers a gauge metric for a node
func (r *MetricsRegistry) RegisterGauge(nodeName, metricName string, gauge prometheus.Gauge) error {
	return r.register("RegisterGauge", nodeName, metricName, gauge)
}

// RegisterHistogram registers a histogram metric for a node
func (r *MetricsRegistry) RegisterHistogram(nodeName, metricName string, histogram prometheus.Histogram) error {
	return r.register("RegisterHistogram", nodeName, metricName, histogram)
}

// RegisterCounterVec registers a counter vector metric for a node
func (r *MetricsRegistry) RegisterCounterVec(nodeName, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register("RegisterCounterVec", nodeName, metricName, counterVec)
}

// RegisterGaugeVec registers a gauge vector metric for a node
func (r *MetricsRegistry) RegisterGaugeVec(nodeName, metricName string, gaugeVec *prometheus.GaugeVec) error {
	return r.register("RegisterGaugeVec", nodeName, metricName, gaugeVec)
}

// RegisterHistogramVec registers a histogram vector metric for a node
func (r *MetricsRegistry) RegisterHistogramVec(
	nodeName, metricName string, histogramVec *prometheus.HistogramVec) error {
	return r.register("RegisterHistogramVec", nodeName, metricName, histogramVec)
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(nodeName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", nodeName, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}

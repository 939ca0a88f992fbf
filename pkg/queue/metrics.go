package queue

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/flowgate/metric"
)

// queueMetrics holds Prometheus metrics for queue operations.
type queueMetrics struct {
	pushes prometheus.Counter
	pops   prometheus.Counter
	peeks  prometheus.Counter
	size   prometheus.Gauge
}

// newQueueMetrics creates and registers queue metrics with the provided registry.
func newQueueMetrics(registry *metric.MetricsRegistry, prefix string) (*queueMetrics, error) {
	m := &queueMetrics{
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowgate",
			Subsystem:   "queue",
			Name:        "pushes_total",
			ConstLabels: prometheus.Labels{"port": prefix},
			Help:        "Total number of queue push operations",
		}),
		pops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowgate",
			Subsystem:   "queue",
			Name:        "pops_total",
			ConstLabels: prometheus.Labels{"port": prefix},
			Help:        "Total number of queue pop operations",
		}),
		peeks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "flowgate",
			Subsystem:   "queue",
			Name:        "peeks_total",
			ConstLabels: prometheus.Labels{"port": prefix},
			Help:        "Total number of non-consuming queue inspections",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "flowgate",
			Subsystem:   "queue",
			Name:        "size",
			ConstLabels: prometheus.Labels{"port": prefix},
			Help:        "Current number of items in the queue",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "queue_pushes", m.pushes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "queue_pops", m.pops); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "queue_peeks", m.peeks); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "queue_size", m.size); err != nil {
		return nil, err
	}

	return m, nil
}

// recordPush increments the push counter and updates the size gauge.
func (m *queueMetrics) recordPush(size int) {
	m.pushes.Inc()
	m.size.Set(float64(size))
}

// recordPop increments the pop counter and updates the size gauge.
func (m *queueMetrics) recordPop(size int) {
	m.pops.Inc()
	m.size.Set(float64(size))
}

// recordPeek increments the peek counter.
func (m *queueMetrics) recordPeek() {
	m.peeks.Inc()
}

// updateSize sets the current queue size.
func (m *queueMetrics) updateSize(size int) {
	m.size.Set(float64(size))
}

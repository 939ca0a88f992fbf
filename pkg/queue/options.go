package queue

import (
	"github.com/c360/flowgate/metric"
)

// Option configures queue behavior using the functional options pattern.
type Option[T any] func(*queueOptions[T])

// queueOptions holds internal configuration for queue instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type queueOptions[T any] struct {
	initialCapacity int

	// metricsReg is optional - if provided, queue stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the port label for Prometheus metrics
	metricsPrefix string
}

// WithInitialCapacity pre-sizes the queue's backing storage for ports with a
// known typical burst size. Defaults to a small allocation when unset.
func WithInitialCapacity[T any](capacity int) Option[T] {
	return func(opts *queueOptions[T]) {
		opts.initialCapacity = capacity
	}
}

// WithMetrics enables Prometheus metrics export for queue statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *queueOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// applyOptions applies functional options to create final queue configuration.
// This is an internal helper used by queue constructors.
func applyOptions[T any](options ...Option[T]) *queueOptions[T] {
	opts := &queueOptions[T]{}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}

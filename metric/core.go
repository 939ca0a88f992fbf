package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all gateway-level metrics (not component-specific)
type Metrics struct {
	// Read-path metrics
	PacketsConsumed    *prometheus.CounterVec
	Activations        *prometheus.CounterVec
	StreamsAssembled   *prometheus.CounterVec
	PreconditionChecks *prometheus.CounterVec
	UnbalancedBrackets *prometheus.CounterVec

	// Node state metrics
	NodeLoad     *prometheus.GaugeVec
	BracketDepth *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all gateway metrics
func NewMetrics() *Metrics {
	return &Metrics{
		PacketsConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowgate",
				Subsystem: "gateway",
				Name:      "packets_consumed_total",
				Help:      "Total number of packets dequeued from input ports",
			},
			[]string{"node", "port", "kind"},
		),

		Activations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowgate",
				Subsystem: "gateway",
				Name:      "activations_total",
				Help:      "Total number of component invocations activated by a read",
			},
			[]string{"node"},
		),

		StreamsAssembled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowgate",
				Subsystem: "gateway",
				Name:      "streams_assembled_total",
				Help:      "Total number of framed sub-streams assembled (complete or partial)",
			},
			[]string{"node", "port", "status"},
		),

		PreconditionChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowgate",
				Subsystem: "gateway",
				Name:      "precondition_checks_total",
				Help:      "Total number of precondition evaluations",
			},
			[]string{"node", "check", "outcome"},
		),

		UnbalancedBrackets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowgate",
				Subsystem: "gateway",
				Name:      "unbalanced_brackets_total",
				Help:      "Total number of close brackets observed with no matching open frame",
			},
			[]string{"node", "port"},
		),

		NodeLoad: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowgate",
				Subsystem: "node",
				Name:      "load",
				Help:      "Number of in-flight invocations per node",
			},
			[]string{"node"},
		),

		BracketDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowgate",
				Subsystem: "node",
				Name:      "bracket_depth",
				Help:      "Current open-bracket nesting depth per forwarding port",
			},
			[]string{"node", "port"},
		),
	}
}

// collectors returns every core metric for bulk registration.
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PacketsConsumed,
		m.Activations,
		m.StreamsAssembled,
		m.PreconditionChecks,
		m.UnbalancedBrackets,
		m.NodeLoad,
		m.BracketDepth,
	}
}

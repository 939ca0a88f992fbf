// Package node holds the per-component mutable state the gateway operates
// on: input port registry, activation and load tracking, the ordered and
// forwarding-port flags, and the bracket-context stacks keyed by
// (direction, port, scope, index).
package node

import (
	"sync"
	"sync/atomic"

	"github.com/c360/flowgate/metric"
	"github.com/c360/flowgate/port"
)

// Node is the mutable state of one running component.
type Node struct {
	id      string
	ordered bool
	logger  *Logger
	metrics *metric.Metrics

	load int64 // in-flight invocations, atomic

	mu         sync.Mutex
	inPorts    map[string]*port.InPort
	portOrder  []string
	forwarding map[string]bool
	stacks     map[StackKey]*BracketStack
}

// Option configures a node at construction time.
type Option func(*Node)

// Ordered declares that the component's output must be released in
// invocation-start order rather than completion order.
func Ordered() Option {
	return func(n *Node) {
		n.ordered = true
	}
}

// WithLogger attaches a node logger.
func WithLogger(l *Logger) Option {
	return func(n *Node) {
		n.logger = l
	}
}

// WithMetrics attaches gateway metrics. Load and activation counters are
// reported against the node id.
func WithMetrics(m *metric.Metrics) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

// New creates a node with the given id.
func New(id string, opts ...Option) *Node {
	n := &Node{
		id:         id,
		inPorts:    make(map[string]*port.InPort),
		forwarding: make(map[string]bool),
		stacks:     make(map[StackKey]*BracketStack),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// ID returns the node identifier used in error messages and metrics.
func (n *Node) ID() string { return n.id }

// IsOrdered reports whether the component runs in ordered mode.
func (n *Node) IsOrdered() bool { return n.ordered }

// Logger returns the node logger, which may be nil.
func (n *Node) Logger() *Logger { return n.logger }

// Metrics returns the attached gateway metrics, which may be nil.
func (n *Node) Metrics() *metric.Metrics { return n.metrics }

// AddInPort registers an input port on the node. Registering a name twice
// replaces the previous port.
func (n *Node) AddInPort(p *port.InPort) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.inPorts[p.Name()]; !exists {
		n.portOrder = append(n.portOrder, p.Name())
	}
	n.inPorts[p.Name()] = p
}

// InPort looks up a registered input port by name.
func (n *Node) InPort(name string) (*port.InPort, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.inPorts[name]
	return p, ok
}

// InPortNames returns the registered input port names in registration order.
func (n *Node) InPortNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.portOrder))
	copy(out, n.portOrder)
	return out
}

// SetForwarding marks an input port as order-forwarding: brackets read ahead
// of data on it are captured into bracket context instead of being handed to
// the component.
func (n *Node) SetForwarding(portName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forwarding[portName] = true
}

// IsForwardingInport reports whether the named input port forwards brackets.
func (n *Node) IsForwardingInport(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forwarding[name]
}

// Activate records the start of one component invocation and returns the new
// load. The owning runtime uses load to track in-flight concurrency per node.
func (n *Node) Activate() int64 {
	load := atomic.AddInt64(&n.load, 1)
	if n.metrics != nil {
		n.metrics.Activations.WithLabelValues(n.id).Inc()
		n.metrics.NodeLoad.WithLabelValues(n.id).Set(float64(load))
	}
	if n.logger != nil {
		n.logger.Debug("invocation activated")
	}
	return load
}

// Deactivate records the completion of one invocation and returns the new
// load.
func (n *Node) Deactivate() int64 {
	load := atomic.AddInt64(&n.load, -1)
	if n.metrics != nil {
		n.metrics.NodeLoad.WithLabelValues(n.id).Set(float64(load))
	}
	return load
}

// Load returns the number of in-flight invocations.
func (n *Node) Load() int64 {
	return atomic.LoadInt64(&n.load)
}

// BracketStack returns the mutable bracket-context stack for the given key,
// creating it from the shared pool on first use.
func (n *Node) BracketStack(key StackKey) *BracketStack {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.stacks[key]
	if !ok {
		s = stackPool.Get().(*BracketStack)
		n.stacks[key] = s
	}
	return s
}

// EvictScope releases every bracket stack and port partition belonging to a
// scope. The runtime calls this once a scope's invocation chain completes so
// pooled stacks can be reused.
func (n *Node) EvictScope(scope string) {
	n.mu.Lock()
	for key, s := range n.stacks {
		if key.Scope == scope {
			s.reset()
			stackPool.Put(s)
			delete(n.stacks, key)
		}
	}
	ports := make([]*port.InPort, 0, len(n.inPorts))
	for _, p := range n.inPorts {
		ports = append(ports, p)
	}
	n.mu.Unlock()

	for _, p := range ports {
		p.EvictScope(scope)
	}
}

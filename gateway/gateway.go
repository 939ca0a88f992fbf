// Package gateway implements the read side of a component invocation: firing
// precondition checks over one or more input ports, packet retrieval with
// activation and bracket-context tracking, and the two derived read modes
// (payload values and whole framed sub-streams).
//
// A Gateway is constructed per firing, bound to one node, one routing scope,
// and one Result accumulator. Precondition queries (HasPackets, HasData,
// HasCompleteStream, ListAttached) are read-only; Read, ReadValue, and
// ReadStream consume packets and mutate node state.
package gateway

import (
	"fmt"

	"github.com/c360/flowgate/errors"
	"github.com/c360/flowgate/metric"
	"github.com/c360/flowgate/node"
	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/port"
)

// DefaultPort is the conventional input port used when a call names no ports.
const DefaultPort = "in"

// PortRef names one input port in a gateway request. Index is packet.NoIndex
// for non-addressable ports. Callers resolve references up front rather than
// the gateway sniffing argument shapes.
type PortRef struct {
	Name  string
	Index int
}

// Ref references a non-addressable port by name.
func Ref(name string) PortRef {
	return PortRef{Name: name, Index: packet.NoIndex}
}

// RefIndex references one sub-channel of an addressable port.
func RefIndex(name string, index int) PortRef {
	return PortRef{Name: name, Index: index}
}

// String returns the reference in port[index] notation for error messages.
func (r PortRef) String() string {
	if r.Index == packet.NoIndex {
		return r.Name
	}
	return fmt.Sprintf("%s[%d]", r.Name, r.Index)
}

// Result accumulates the per-invocation outcome of gateway reads. One fresh
// Result is constructed per firing, owned exclusively by that invocation, and
// discarded once the component logic completes (or, in ordered mode, once the
// runtime releases it).
type Result struct {
	// Activated is set by the first consuming read of the invocation.
	Activated bool

	// Resolved gates output release for ordered components. It starts false
	// on first activation and must be set by the component logic before the
	// runtime releases output in invocation-start order. Unordered
	// components ignore it.
	Resolved bool

	// BracketsClosedBeforeData lists frames whose closing packet arrived
	// before the first data packet seen on a forwarding port during this
	// invocation.
	BracketsClosedBeforeData []*node.BracketContext

	// BracketContextByPort maps port name to a snapshot of that port's open
	// bracket stack, captured at the moment data was read, so downstream
	// emission can re-wrap output with the same nesting.
	BracketContextByPort map[string][]*node.BracketContext
}

// NewResult creates an empty invocation result.
func NewResult() *Result {
	return &Result{
		BracketContextByPort: make(map[string][]*node.BracketContext),
	}
}

// Gateway answers "can I fire?" and "give me my input" for one invocation of
// one node, within one routing scope.
type Gateway struct {
	node   *node.Node
	scope  string
	result *Result
}

// New binds a gateway to a node, a scope key, and the invocation's result
// accumulator.
func New(n *node.Node, scope string, result *Result) *Gateway {
	return &Gateway{node: n, scope: scope, result: result}
}

// Scope returns the routing scope this gateway reads within.
func (g *Gateway) Scope() string { return g.scope }

// Result returns the invocation's result accumulator.
func (g *Gateway) Result() *Result { return g.result }

// metrics returns the node's gateway metrics, which may be nil.
func (g *Gateway) metrics() *metric.Metrics {
	return g.node.Metrics()
}

// withDefault substitutes the conventional "in" port for an empty request.
func withDefault(ports []PortRef) []PortRef {
	if len(ports) == 0 {
		return []PortRef{Ref(DefaultPort)}
	}
	return ports
}

// resolve validates a port reference against the node's registry and the
// port's addressability. Mismatches are caller defects and fail immediately.
func (g *Gateway) resolve(op string, ref PortRef) (*port.InPort, error) {
	p, ok := g.node.InPort(ref.Name)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: no port %q on node %s", errors.ErrUnknownPort, ref.Name, g.node.ID()),
			"Gateway", op, "port lookup")
	}
	if p.IsAddressable() && ref.Index == packet.NoIndex {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: port %q on node %s is addressable and requires an index",
				errors.ErrAddressabilityMismatch, ref.Name, g.node.ID()),
			"Gateway", op, "port resolution")
	}
	if !p.IsAddressable() && ref.Index != packet.NoIndex {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: port %q on node %s is not addressable",
				errors.ErrAddressabilityMismatch, ref.Name, g.node.ID()),
			"Gateway", op, "port resolution")
	}
	return p, nil
}

// resolveAll validates every reference before any packet is consumed, so a
// malformed request never half-drains a multi-port read.
func (g *Gateway) resolveAll(op string, refs []PortRef) ([]*port.InPort, error) {
	ports := make([]*port.InPort, len(refs))
	for i, ref := range refs {
		p, err := g.resolve(op, ref)
		if err != nil {
			return nil, err
		}
		ports[i] = p
	}
	return ports, nil
}

// ListAttached returns each named port's attachment list in request order.
// It consumes nothing and does not activate the invocation. With no
// arguments it reports on the conventional "in" port.
func (g *Gateway) ListAttached(ports ...string) ([][]port.Attachment, error) {
	if len(ports) == 0 {
		ports = []string{DefaultPort}
	}
	out := make([][]port.Attachment, len(ports))
	for i, name := range ports {
		p, ok := g.node.InPort(name)
		if !ok {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: no port %q on node %s", errors.ErrUnknownPort, name, g.node.ID()),
				"Gateway", "ListAttached", "port lookup")
		}
		out[i] = p.ListAttached()
	}
	return out, nil
}

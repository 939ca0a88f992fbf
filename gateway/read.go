package gateway

import (
	"fmt"

	"github.com/c360/flowgate/errors"
	"github.com/c360/flowgate/node"
	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/port"
)

// Read dequeues the next packet from each listed port, in request order. The
// returned slice is positionally aligned with the request; a port whose
// partition is empty yields a nil entry. No ports means the conventional
// "in" port.
//
// Read always activates the invocation, even when nothing is buffered,
// because the caller has already committed to firing. On ports registered as
// order-forwarding, brackets read ahead of data are folded into the
// invocation's bracket context instead of being returned.
func (g *Gateway) Read(ports ...PortRef) ([]*packet.Packet, error) {
	refs := withDefault(ports)

	// Validate the whole request before consuming anything, so a malformed
	// reference never half-drains a multi-port read.
	resolved, err := g.resolveAll("Read", refs)
	if err != nil {
		return nil, err
	}

	g.activate()

	results := make([]*packet.Packet, len(refs))
	for i, ref := range refs {
		pkt, err := g.readPort(resolved[i], ref.Index)
		if err != nil {
			return nil, err
		}
		results[i] = pkt
	}
	return results, nil
}

// activate marks the invocation active exactly once. For ordered components
// the result starts unresolved, deferring output release until the component
// explicitly marks completion.
func (g *Gateway) activate() {
	if g.result.Activated {
		return
	}
	if g.node.IsOrdered() {
		g.result.Resolved = false
	}
	g.node.Activate()
	g.result.Activated = true
}

// readPort dequeues one packet from a resolved port partition.
func (g *Gateway) readPort(p *port.InPort, index int) (*packet.Packet, error) {
	if g.node.IsForwardingInport(p.Name()) {
		return g.forwardingRead(p, index)
	}

	pkt, ok := p.DequeueMatching(g.scope, index, nil)
	if !ok {
		return nil, nil
	}
	g.recordConsumed(p.Name(), pkt)
	return pkt, nil
}

// forwardingRead dequeues until a data packet is found or the partition is
// exhausted, threading every bracket encountered beforehand through the
// node's bracket-context stack so the framing can be replayed on output.
func (g *Gateway) forwardingRead(p *port.InPort, index int) (*packet.Packet, error) {
	var prefix []*packet.Packet
	var data *packet.Packet

	for {
		pkt, ok := p.DequeueMatching(g.scope, index, nil)
		if !ok {
			break
		}
		g.recordConsumed(p.Name(), pkt)
		if pkt.Kind == packet.Data {
			data = pkt
			break
		}
		prefix = append(prefix, pkt)
	}

	key := node.StackKey{Dir: node.DirectionIn, Port: p.Name(), Scope: g.scope, Index: index}
	stack := g.node.BracketStack(key)

	for _, b := range prefix {
		switch b.Kind {
		case packet.OpenBracket:
			stack.Push(node.NewBracketContext(b, p.Name()))

		case packet.CloseBracket:
			frame, ok := stack.Pop()
			if !ok {
				// A close with no matching open means the upstream producer
				// emitted malformed framing; continuing would corrupt every
				// subsequent read on this port.
				if m := g.metrics(); m != nil {
					m.UnbalancedBrackets.WithLabelValues(g.node.ID(), p.Name()).Inc()
				}
				if l := g.node.Logger(); l != nil {
					l.Error("close bracket with no open frame", errors.ErrUnbalancedBracket)
				}
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: close bracket %v on port %q of node %s",
						errors.ErrUnbalancedBracket, b.Payload, p.Name(), g.node.ID()),
					"Gateway", "Read", "bracket context tracking")
			}
			frame.Close = b
			g.result.BracketsClosedBeforeData = append(g.result.BracketsClosedBeforeData, frame)
		}
	}

	// Snapshot so later mutation of the live stack does not retroactively
	// alter what this invocation observed.
	g.result.BracketContextByPort[p.Name()] = stack.Snapshot()

	if m := g.metrics(); m != nil {
		m.BracketDepth.WithLabelValues(g.node.ID(), p.Name()).Set(float64(stack.Depth()))
	}

	return data, nil
}

// recordConsumed reports one dequeued packet to metrics.
func (g *Gateway) recordConsumed(portName string, pkt *packet.Packet) {
	if m := g.metrics(); m != nil {
		m.PacketsConsumed.WithLabelValues(g.node.ID(), portName, pkt.Kind.String()).Inc()
	}
}

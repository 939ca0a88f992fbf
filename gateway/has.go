package gateway

import (
	"github.com/c360/flowgate/packet"
)

// StreamPredicate validates a data packet encountered while scanning for a
// complete framed sub-stream. openLabels holds the labels of the brackets
// currently open around the packet, outermost first.
type StreamPredicate func(p *packet.Packet, openLabels []any) bool

// AcceptStream is the default stream predicate; any data content is valid.
func AcceptStream(*packet.Packet, []any) bool { return true }

// recordCheck reports a precondition evaluation to metrics.
func (g *Gateway) recordCheck(check string, satisfied bool) {
	m := g.metrics()
	if m == nil {
		return
	}
	outcome := "unsatisfied"
	if satisfied {
		outcome = "satisfied"
	}
	m.PreconditionChecks.WithLabelValues(g.node.ID(), check, outcome).Inc()
}

// HasPackets reports whether every listed port currently buffers at least one
// packet satisfying pred. A nil pred accepts any packet; no ports means the
// conventional "in" port. The check is read-only and short-circuits on the
// first unsatisfied port. "Not ready" is false, never an error.
func (g *Gateway) HasPackets(pred packet.Predicate, ports ...PortRef) (bool, error) {
	refs := withDefault(ports)
	for _, ref := range refs {
		p, err := g.resolve("HasPackets", ref)
		if err != nil {
			return false, err
		}
		if !p.HasMatching(g.scope, ref.Index, pred) {
			g.recordCheck("packets", false)
			return false, nil
		}
	}
	g.recordCheck("packets", true)
	return true, nil
}

// HasData is HasPackets with the predicate fixed to data packets.
func (g *Gateway) HasData(ports ...PortRef) (bool, error) {
	return g.HasPackets(packet.IsData, ports...)
}

// HasCompleteStream reports whether every listed port buffers one complete
// framed sub-stream: balanced brackets enclosing at least one data packet
// that satisfies pred, or a bare data packet at depth zero. The scan tracks
// bracket nesting without consuming anything. A nil pred accepts any data.
func (g *Gateway) HasCompleteStream(pred StreamPredicate, ports ...PortRef) (bool, error) {
	if pred == nil {
		pred = AcceptStream
	}
	refs := withDefault(ports)
	for _, ref := range refs {
		p, err := g.resolve("HasCompleteStream", ref)
		if err != nil {
			return false, err
		}
		if !scanCompleteStream(p, g.scope, ref.Index, pred) {
			g.recordCheck("stream", false)
			return false, nil
		}
	}
	g.recordCheck("stream", true)
	return true, nil
}

// scanCompleteStream walks one partition's buffered packets in order,
// tracking bracket depth, and reports whether a complete valid stream is
// present.
func scanCompleteStream(p portScanner, scope string, index int, pred StreamPredicate) bool {
	depth := 0
	var openLabels []any
	sawData := false
	valid := true
	complete := false

	p.Scan(scope, index, func(pkt *packet.Packet) bool {
		switch pkt.Kind {
		case packet.OpenBracket:
			depth++
			openLabels = append(openLabels, pkt.Payload)

		case packet.Data:
			ok := pred(pkt, openLabels)
			if depth == 0 {
				// Unbracketed data decides completeness by itself.
				complete = ok
				return false
			}
			sawData = true
			valid = valid && ok

		case packet.CloseBracket:
			if depth == 0 {
				// Stray close with no surrounding open; the stream cannot
				// complete from here, the defect surfaces at read time.
				return false
			}
			depth--
			openLabels = openLabels[:len(openLabels)-1]
			if depth == 0 {
				complete = sawData && valid
				return false
			}
		}
		return true
	})

	return complete
}

// portScanner is the slice of the port contract the stream scan needs.
type portScanner interface {
	Scan(scope string, index int, visit func(*packet.Packet) bool)
}

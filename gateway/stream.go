package gateway

import (
	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/port"
)

// ReadValue reads payload values, one per listed port, discarding bracket
// packets until a data packet is produced or the port's partition is
// exhausted. Results are positionally aligned with the request; an exhausted
// port yields a nil entry so multi-port callers can tell which ports had no
// value.
func (g *Gateway) ReadValue(ports ...PortRef) ([]any, error) {
	refs := withDefault(ports)
	resolved, err := g.resolveAll("ReadValue", refs)
	if err != nil {
		return nil, err
	}

	g.activate()

	values := make([]any, len(refs))
	for i, ref := range refs {
		for {
			pkt, err := g.readPort(resolved[i], ref.Index)
			if err != nil {
				return nil, err
			}
			if pkt == nil {
				break
			}
			if pkt.Kind == packet.Data {
				values[i] = pkt.Payload
				break
			}
		}
	}
	return values, nil
}

// ReadStream reads one complete framed sub-stream per listed port: the
// bracket packets and the data inside them, in arrival order. A bare data
// packet outside any bracket is itself a valid one-element stream.
//
// An open bracket that begins a fresh outer frame discards any prior partial
// accumulation for that port; the newest frame wins over a stale abandoned
// one. If the
// partition runs out before the stream closes, the partial accumulation is
// returned as-is; the upstream producer may simply not have emitted the
// closing packet yet, and retrying is the scheduler's job.
func (g *Gateway) ReadStream(ports ...PortRef) ([][]*packet.Packet, error) {
	refs := withDefault(ports)
	resolved, err := g.resolveAll("ReadStream", refs)
	if err != nil {
		return nil, err
	}

	g.activate()

	streams := make([][]*packet.Packet, len(refs))
	for i, ref := range refs {
		stream, err := g.assembleStream(resolved[i], ref)
		if err != nil {
			return nil, err
		}
		streams[i] = stream
	}
	return streams, nil
}

// assembleStream accumulates packets from one port until a stream completes
// or the partition is exhausted.
func (g *Gateway) assembleStream(p *port.InPort, ref PortRef) ([]*packet.Packet, error) {
	var stream []*packet.Packet
	depth := 0
	sawData := false
	complete := false

	for {
		pkt, err := g.readPort(p, ref.Index)
		if err != nil {
			return nil, err
		}
		if pkt == nil {
			break
		}

		switch pkt.Kind {
		case packet.OpenBracket:
			if depth == 0 || sawData {
				// A fresh outer bracket, or one beginning after the current
				// frame already carried data, marks the prior partial frame
				// as abandoned. The newest frame wins.
				stream = stream[:0]
				sawData = false
				depth = 0
			}
			depth++
			stream = append(stream, pkt)

		case packet.Data:
			stream = append(stream, pkt)
			sawData = true
			if depth == 0 {
				complete = true
			}

		case packet.CloseBracket:
			stream = append(stream, pkt)
			if depth > 0 {
				depth--
			}
			if depth == 0 && sawData {
				complete = true
			}
		}

		if complete {
			break
		}
	}

	if m := g.metrics(); m != nil {
		status := "partial"
		if complete {
			status = "complete"
		}
		m.StreamsAssembled.WithLabelValues(g.node.ID(), ref.Name, status).Inc()
	}

	return stream, nil
}

// Package testutil provides core test utilities for flowgate with no domain
// assumptions: packet sequence builders, port loading helpers, and
// ready-wired test nodes.
package testutil

import (
	"github.com/google/uuid"

	"github.com/c360/flowgate/node"
	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/port"
)

// NewScope returns a fresh routing scope key. Scopes only need to be unique
// per test, so a random UUID is plenty.
func NewScope() string {
	return uuid.NewString()
}

// Datas builds one data packet per payload.
func Datas(payloads ...any) []*packet.Packet {
	pkts := make([]*packet.Packet, len(payloads))
	for i, payload := range payloads {
		pkts[i] = packet.New(payload)
	}
	return pkts
}

// Bracketed wraps one data packet per payload in a single open/close pair
// labeled label.
func Bracketed(label any, payloads ...any) []*packet.Packet {
	pkts := make([]*packet.Packet, 0, len(payloads)+2)
	pkts = append(pkts, packet.Open(label))
	pkts = append(pkts, Datas(payloads...)...)
	return append(pkts, packet.Close(label))
}

// WithScope stamps every packet in the sequence with the scope key.
func WithScope(scope string, pkts []*packet.Packet) []*packet.Packet {
	out := make([]*packet.Packet, len(pkts))
	for i, p := range pkts {
		out[i] = p.WithScope(scope)
	}
	return out
}

// Load pushes a packet sequence into a port under one scope.
func Load(p *port.InPort, scope string, pkts ...*packet.Packet) {
	for _, pkt := range pkts {
		p.Receive(pkt.WithScope(scope))
	}
}

// LoadIndexed pushes a packet sequence into one sub-channel of an
// addressable port.
func LoadIndexed(p *port.InPort, scope string, index int, pkts ...*packet.Packet) {
	for _, pkt := range pkts {
		p.Receive(pkt.WithScope(scope).WithIndex(index))
	}
}

// NewTestNode builds a node with plain (non-addressable, non-forwarding)
// input ports named as given. With no names it gets the conventional "in"
// port.
func NewTestNode(id string, portNames ...string) *node.Node {
	if len(portNames) == 0 {
		portNames = []string{"in"}
	}
	n := node.New(id)
	for _, name := range portNames {
		n.AddInPort(port.NewIn(name))
	}
	return n
}

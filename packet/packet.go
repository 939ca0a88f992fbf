// Package packet defines the information packet model used on flowgate ports.
// A packet is a typed unit of data flowing between components: plain data, or
// one of the two bracket kinds that frame sub-streams within a port's buffer.
package packet

import "fmt"

// Kind identifies the packet type tag.
type Kind int

const (
	// Data carries a payload value between components.
	Data Kind = iota
	// OpenBracket marks the start of a framed sub-stream. Its payload, when
	// present, is a label used to correlate nested scopes.
	OpenBracket
	// CloseBracket marks the end of a framed sub-stream.
	CloseBracket
)

// String returns a string representation of the packet kind.
func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case OpenBracket:
		return "openBracket"
	case CloseBracket:
		return "closeBracket"
	default:
		return "unknown"
	}
}

// NoIndex marks a packet (or port reference) that does not target a numbered
// sub-channel of an addressable port.
const NoIndex = -1

// Packet is a single information packet. Kind and Payload are immutable once
// the packet has been emitted; Scope partitions independent streams that share
// one port, and Index selects a sub-channel on addressable ports.
type Packet struct {
	Kind    Kind
	Payload any
	Scope   string
	Index   int
}

// New creates a data packet carrying payload on the default scope.
func New(payload any) *Packet {
	return &Packet{Kind: Data, Payload: payload, Index: NoIndex}
}

// Open creates an open-bracket packet. The label may be nil for anonymous
// brackets.
func Open(label any) *Packet {
	return &Packet{Kind: OpenBracket, Payload: label, Index: NoIndex}
}

// Close creates a close-bracket packet matching a previously opened label.
func Close(label any) *Packet {
	return &Packet{Kind: CloseBracket, Payload: label, Index: NoIndex}
}

// WithScope returns a copy of the packet routed to the given scope key.
func (p *Packet) WithScope(scope string) *Packet {
	c := *p
	c.Scope = scope
	return &c
}

// WithIndex returns a copy of the packet targeting an addressable sub-channel.
func (p *Packet) WithIndex(index int) *Packet {
	c := *p
	c.Index = index
	return &c
}

// IsBracket reports whether the packet is an open or close bracket.
func (p *Packet) IsBracket() bool {
	return p.Kind == OpenBracket || p.Kind == CloseBracket
}

// String implements fmt.Stringer for log output.
func (p *Packet) String() string {
	if p.Kind == Data {
		return fmt.Sprintf("data(%v)", p.Payload)
	}
	return fmt.Sprintf("%s(%v)", p.Kind, p.Payload)
}

// Predicate selects packets during precondition checks and reads.
type Predicate func(*Packet) bool

// Any accepts every packet. It is the default predicate for HasPackets.
func Any(*Packet) bool { return true }

// IsData accepts only data packets.
func IsData(p *Packet) bool { return p.Kind == Data }

// Package port implements input ports: named, optionally addressable packet
// buffers partitioned by routing scope. A port owns the per-(scope, index)
// packet queues and exposes the predicate-based existence-check and dequeue
// operations the gateway consumes. It knows nothing about firing rules or
// bracket context; that logic lives in the gateway package.
package port

import (
	"sort"
	"sync"

	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/pkg/queue"
)

// Attachment describes an upstream producer wired to a port sub-channel.
type Attachment struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
}

// partitionKey identifies one independent packet queue within a port.
type partitionKey struct {
	scope string
	index int
}

// InPort is a named input port holding an unbounded FIFO queue of packets per
// (scope, index) partition. All methods are safe for concurrent use, though
// the gateway additionally guarantees a single reader per partition.
type InPort struct {
	name        string
	addressable bool
	required    bool
	description string

	mu          sync.Mutex
	partitions  map[partitionKey]queue.Queue[*packet.Packet]
	attachments []Attachment
}

// InOption configures an input port at construction time.
type InOption func(*InPort)

// Addressable marks the port as having numbered sub-channels that must be
// accessed via a (name, index) pair.
func Addressable() InOption {
	return func(p *InPort) {
		p.addressable = true
	}
}

// Required marks the port as one the component cannot fire without.
func Required() InOption {
	return func(p *InPort) {
		p.required = true
	}
}

// WithDescription attaches human-readable documentation to the port.
func WithDescription(desc string) InOption {
	return func(p *InPort) {
		p.description = desc
	}
}

// NewIn creates an input port.
func NewIn(name string, opts ...InOption) *InPort {
	p := &InPort{
		name:       name,
		partitions: make(map[partitionKey]queue.Queue[*packet.Packet]),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Name returns the port name.
func (p *InPort) Name() string { return p.name }

// IsAddressable reports whether the port has numbered sub-channels.
func (p *InPort) IsAddressable() bool { return p.addressable }

// IsRequired reports whether the port is required for firing.
func (p *InPort) IsRequired() bool { return p.required }

// Description returns the port documentation string.
func (p *InPort) Description() string { return p.description }

// partition returns the queue for (scope, index), creating it on first use.
func (p *InPort) partition(scope string, index int) queue.Queue[*packet.Packet] {
	key := partitionKey{scope: scope, index: index}

	p.mu.Lock()
	defer p.mu.Unlock()

	q, ok := p.partitions[key]
	if !ok {
		var err error
		q, err = queue.New[*packet.Packet]()
		if err != nil {
			// Construction without metrics options cannot fail.
			panic(err)
		}
		p.partitions[key] = q
	}
	return q
}

// lookup returns the queue for (scope, index) without creating it.
func (p *InPort) lookup(scope string, index int) (queue.Queue[*packet.Packet], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.partitions[partitionKey{scope: scope, index: index}]
	return q, ok
}

// Receive enqueues a packet into the partition selected by its scope and
// index. Producers (and tests) use this to load the port.
func (p *InPort) Receive(pkt *packet.Packet) {
	p.partition(pkt.Scope, pkt.Index).Push(pkt)
}

// HasMatching reports whether the (scope, index) partition holds at least one
// packet satisfying match, without consuming anything. A nil match accepts
// any packet.
func (p *InPort) HasMatching(scope string, index int, match packet.Predicate) bool {
	q, ok := p.lookup(scope, index)
	if !ok {
		return false
	}
	return q.PeekMatch(func(pkt *packet.Packet) bool {
		return match == nil || match(pkt)
	})
}

// DequeueMatching removes and returns the first packet, in FIFO order, that
// satisfies match. Returns nil and false when nothing matches. A nil match
// accepts any packet, so it dequeues the head.
func (p *InPort) DequeueMatching(scope string, index int, match packet.Predicate) (*packet.Packet, bool) {
	q, ok := p.lookup(scope, index)
	if !ok {
		return nil, false
	}
	return q.PopMatch(func(pkt *packet.Packet) bool {
		return match == nil || match(pkt)
	})
}

// Scan visits the buffered packets of one partition in FIFO order without
// consuming them, stopping early when visit returns false. The compound
// complete-stream precondition is built on this.
func (p *InPort) Scan(scope string, index int, visit func(*packet.Packet) bool) {
	q, ok := p.lookup(scope, index)
	if !ok {
		return
	}
	q.Scan(visit)
}

// Len returns the number of buffered packets in one partition.
func (p *InPort) Len(scope string, index int) int {
	q, ok := p.lookup(scope, index)
	if !ok {
		return 0
	}
	return q.Len()
}

// EvictScope drops every partition belonging to scope, releasing its queues.
// The runtime calls this when a scope's invocation chain completes.
func (p *InPort) EvictScope(scope string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key := range p.partitions {
		if key.scope == scope {
			delete(p.partitions, key)
		}
	}
}

// Attach records an upstream producer wired to the port. Non-addressable
// ports use packet.NoIndex.
func (p *InPort) Attach(index int, source string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attachments = append(p.attachments, Attachment{Index: index, Source: source})
}

// Detach removes a previously recorded attachment. Returns false if no such
// attachment exists.
func (p *InPort) Detach(index int, source string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, a := range p.attachments {
		if a.Index == index && a.Source == source {
			p.attachments = append(p.attachments[:i], p.attachments[i+1:]...)
			return true
		}
	}
	return false
}

// ListAttached returns a copy of the port's attachment records in attach
// order.
func (p *InPort) ListAttached() []Attachment {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Attachment, len(p.attachments))
	copy(out, p.attachments)
	return out
}

// ListAttachedIndices returns the distinct attached sub-channel indices in
// ascending order. Used to discover which indices of an addressable port are
// currently wired.
func (p *InPort) ListAttachedIndices() []int {
	p.mu.Lock()
	seen := make(map[int]bool)
	var indices []int
	for _, a := range p.attachments {
		if !seen[a.Index] {
			seen[a.Index] = true
			indices = append(indices, a.Index)
		}
	}
	p.mu.Unlock()

	sort.Ints(indices)
	return indices
}

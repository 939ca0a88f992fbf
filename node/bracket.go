package node

import (
	"sync"

	"github.com/c360/flowgate/packet"
)

// Direction distinguishes the inbound and outbound bracket-context stacks of
// a node. The gateway only manipulates inbound stacks; outbound stacks are
// owned by the output side of the runtime.
type Direction string

// Direction constants for bracket-context stacks
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// BracketContext is one open-bracket frame captured on a forwarding port.
// It is pushed when an OpenBracket is consumed ahead of data and popped when
// the matching CloseBracket is consumed, at which point Close is filled in.
type BracketContext struct {
	// Open is the bracket packet that started the frame.
	Open *packet.Packet
	// Close is the bracket packet that ended the frame; nil while the frame
	// is still open.
	Close *packet.Packet
	// ContributingPorts collects the output ports that emitted packets
	// inside this frame, so release logic can close them all.
	ContributingPorts map[string]bool
	// OriginPort is the input port the open bracket was consumed from.
	OriginPort string
}

// NewBracketContext creates an open frame for a bracket consumed on originPort.
func NewBracketContext(open *packet.Packet, originPort string) *BracketContext {
	return &BracketContext{
		Open:              open,
		ContributingPorts: make(map[string]bool),
		OriginPort:        originPort,
	}
}

// Label returns the bracket label carried by the opening packet.
func (bc *BracketContext) Label() any {
	if bc.Open == nil {
		return nil
	}
	return bc.Open.Payload
}

// StackKey identifies one bracket-context stack. Independent stacks never
// interact across directions, ports, scopes, or sub-channel indices.
type StackKey struct {
	Dir   Direction
	Port  string
	Scope string
	Index int
}

// BracketStack is a growable stack of open bracket frames for one StackKey.
// The owning Node's lock guards the stack map; the stack itself relies on the
// single-reader-per-partition guarantee of the gateway.
type BracketStack struct {
	frames []*BracketContext
}

// Push adds an open frame to the top of the stack.
func (s *BracketStack) Push(ctx *BracketContext) {
	s.frames = append(s.frames, ctx)
}

// Pop removes and returns the most recently opened frame.
// Returns nil and false when the stack is empty.
func (s *BracketStack) Pop() (*BracketContext, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Depth returns the number of open frames.
func (s *BracketStack) Depth() int {
	return len(s.frames)
}

// Snapshot returns a copy of the stack, bottom first. Later pushes and pops
// on the live stack do not alter the returned slice.
func (s *BracketStack) Snapshot() []*BracketContext {
	if len(s.frames) == 0 {
		return nil
	}
	out := make([]*BracketContext, len(s.frames))
	copy(out, s.frames)
	return out
}

// reset empties the stack for arena reuse.
func (s *BracketStack) reset() {
	for i := range s.frames {
		s.frames[i] = nil
	}
	s.frames = s.frames[:0]
}

// stackPool recycles stack structures across scopes to avoid allocation
// churn on high-frequency firings.
var stackPool = sync.Pool{
	New: func() any {
		return &BracketStack{}
	},
}

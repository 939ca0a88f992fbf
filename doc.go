// Package flowgate implements the inbound-packet gateway of a flow-based
// programming runtime: the read-side contract a running component uses to
// decide whether it may fire, and to retrieve its input while preserving the
// bracket framing that demarcates sub-streams within a port's buffer.
//
// # Architecture
//
// The gateway sits between the scheduler-facing node state and the component
// logic:
//
//	┌─────────────────────────────────────┐
//	│        Component logic              │  HasPackets / HasData /
//	│   (per-invocation firing body)      │  HasCompleteStream, Read,
//	└─────────────────────────────────────┘  ReadValue, ReadStream
//	           ↓ calls
//	┌─────────────────────────────────────┐
//	│           gateway                   │  Precondition evaluation,
//	│  (one per firing, scope-bound)      │  activation, bracket context
//	└─────────────────────────────────────┘
//	           ↓ drains / mutates
//	┌─────────────────────────────────────┐
//	│         node + port                 │  Load counters, bracket
//	│ (per-component state, packet queues)│  stacks, (scope, index)
//	└─────────────────────────────────────┘  partitions
//
// Packets are typed (data, open bracket, close bracket) and partitioned by an
// opaque scope key, which is what lets many invocations share one port
// without cross-talk. Ports flagged as forwarding have their bracket framing
// captured into the invocation result so output emission can re-wrap what the
// component produces with the same nesting, even though the component itself
// only ever sees payload values.
//
// Flowgate MUST NOT contain:
//   - Packet production or routing between nodes
//   - The scheduler that decides which node runs when
//   - Output-port emission
//
// Those belong to the surrounding runtime; this module only answers "can I
// fire?" and "give me my input".
//
// # Packages
//
//   - packet: the information packet model and predicates
//   - port: named, optionally addressable packet buffers
//   - node: per-component state, bracket-context stacks, logging
//   - gateway: precondition evaluator, packet reader, stream assembler
//   - config: node definition loading and validation
//   - metric: Prometheus metrics for the read path
//   - errors: classified error handling (transient / invalid / fatal)
//   - pkg/queue: the generic FIFO behind port partitions
//
// # Quick Start
//
//	n := node.New("transform")
//	n.AddInPort(port.NewIn("in"))
//
//	// Producer side (the runtime's routing layer):
//	p, _ := n.InPort("in")
//	p.Receive(packet.Open("batch"))
//	p.Receive(packet.New(42).WithScope(""))
//	p.Receive(packet.Close("batch"))
//
//	// Consumer side (one firing of the component logic):
//	gw := gateway.New(n, "", gateway.NewResult())
//	if ok, _ := gw.HasCompleteStream(nil); ok {
//	    streams, _ := gw.ReadStream()
//	    // streams[0] holds the full framed sub-stream
//	}
package flowgate

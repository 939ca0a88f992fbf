package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/c360/flowgate/errors"
	"github.com/c360/flowgate/packet"
)

// TraceEvent is one packet arrival in a recorded trace file. The file is a
// JSON array of events in arrival order.
type TraceEvent struct {
	Node    string `json:"node,omitempty"`
	Port    string `json:"port"`
	Kind    string `json:"kind"` // data, open, or close
	Payload any    `json:"payload,omitempty"`
	Scope   string `json:"scope,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

// loadTrace reads and parses a trace file.
func loadTrace(path string) ([]TraceEvent, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return nil, errors.Wrap(err, "flowgate", "loadTrace", "trace read")
	}

	var events []TraceEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, errors.WrapInvalid(err, "flowgate", "loadTrace", "trace parsing")
	}
	return events, nil
}

// packet converts a trace event into an information packet.
func (e TraceEvent) packet() (*packet.Packet, error) {
	var pkt *packet.Packet
	switch e.Kind {
	case "data":
		pkt = packet.New(e.Payload)
	case "open":
		pkt = packet.Open(e.Payload)
	case "close":
		pkt = packet.Close(e.Payload)
	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("unknown packet kind %q", e.Kind),
			"flowgate", "packet", "trace event conversion")
	}

	pkt = pkt.WithScope(e.Scope)
	if e.Index != nil {
		pkt = pkt.WithIndex(*e.Index)
	}
	return pkt, nil
}

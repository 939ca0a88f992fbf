// Package main implements the flowgate replay tool. It loads a node
// definition and a recorded packet trace, drives the node's input gateway
// scope by scope, and prints each assembled sub-stream together with the
// bracket context the gateway captured.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360/flowgate/config"
	"github.com/c360/flowgate/gateway"
	"github.com/c360/flowgate/metric"
	"github.com/c360/flowgate/node"
	"github.com/c360/flowgate/packet"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "flowgate"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Replay failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()

	if cliCfg.ShowHelp {
		printUsage()
		return nil
	}
	if cliCfg.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.NewLoader().LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid", "graph_id", cfg.GraphID, "nodes", len(cfg.Nodes))
		return nil
	}

	if cliCfg.TracePath == "" {
		return fmt.Errorf("no trace file given; use -trace")
	}

	nodeID, nodeCfg, err := selectNode(cfg, cliCfg.Node)
	if err != nil {
		return err
	}

	// Optional remote log publishing, enabled when the config names a NATS
	// server.
	var nc *nats.Conn
	if cfg.Logging.NATSURL != "" {
		nc, err = nats.Connect(cfg.Logging.NATSURL, nats.Name(appName))
		if err != nil {
			return fmt.Errorf("connecting to NATS at %s: %w", cfg.Logging.NATSURL, err)
		}
		defer nc.Close()
	}

	registry := metric.NewMetricsRegistry()
	n := config.BuildNode(nodeID, nodeCfg,
		node.WithLogger(node.NewLogger(nodeID, cfg.GraphID, nc, logger)),
		node.WithMetrics(registry.CoreMetrics()),
	)

	events, err := loadTrace(cliCfg.TracePath)
	if err != nil {
		return err
	}

	return replay(n, nodeID, events)
}

// selectNode picks the node to replay against: the -node flag when given,
// otherwise the config's only node.
func selectNode(cfg *config.Config, want string) (string, config.NodeConfig, error) {
	if want != "" {
		nc, ok := cfg.Nodes[want]
		if !ok {
			return "", config.NodeConfig{}, fmt.Errorf("node %q not defined in config", want)
		}
		return want, nc, nil
	}
	if len(cfg.Nodes) != 1 {
		return "", config.NodeConfig{}, fmt.Errorf("config defines %d nodes; select one with -node", len(cfg.Nodes))
	}
	for id, nc := range cfg.Nodes {
		return id, nc, nil
	}
	return "", config.NodeConfig{}, fmt.Errorf("config defines no nodes")
}

// streamRecord is one line of replay output.
type streamRecord struct {
	Invocation  string         `json:"invocation"`
	Scope       string         `json:"scope"`
	Port        string         `json:"port"`
	Complete    bool           `json:"complete"`
	Packets     []packetRecord `json:"packets"`
	OpenFrames  []any          `json:"open_frames,omitempty"`
	EarlyCloses []any          `json:"early_closes,omitempty"`
}

type packetRecord struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// replay feeds the trace into the node's ports and drains one framed
// sub-stream at a time per scope, printing each as a JSON line on stdout.
func replay(n *node.Node, nodeID string, events []TraceEvent) error {
	enc := json.NewEncoder(os.Stdout)

	var scopes []string
	seen := make(map[string]bool)

	for _, ev := range events {
		if ev.Node != "" && ev.Node != nodeID {
			continue
		}
		p, ok := n.InPort(ev.Port)
		if !ok {
			return fmt.Errorf("trace references unknown port %q on node %s", ev.Port, nodeID)
		}
		pkt, err := ev.packet()
		if err != nil {
			return err
		}
		p.Receive(pkt)
		if !seen[ev.Scope] {
			seen[ev.Scope] = true
			scopes = append(scopes, ev.Scope)
		}
	}

	for _, scope := range scopes {
		for _, portName := range n.InPortNames() {
			ref := gateway.Ref(portName)
			for {
				// One gateway per firing, with a fresh result accumulator.
				result := gateway.NewResult()
				gw := gateway.New(n, scope, result)

				ready, err := gw.HasPackets(nil, ref)
				if err != nil {
					return err
				}
				if !ready {
					break
				}

				streams, err := gw.ReadStream(ref)
				if err != nil {
					return err
				}
				if err := enc.Encode(buildRecord(scope, portName, streams[0], result)); err != nil {
					return err
				}
				n.Deactivate()
			}
		}
		n.EvictScope(scope)
	}

	slog.Info("Replay finished", "node", nodeID, "scopes", len(scopes), "load", n.Load())
	return nil
}

func buildRecord(scope, portName string, stream []*packet.Packet, result *gateway.Result) streamRecord {
	rec := streamRecord{
		Invocation: uuid.NewString(),
		Scope:      scope,
		Port:       portName,
		Complete:   isComplete(stream),
		Packets:    make([]packetRecord, len(stream)),
	}
	for i, pkt := range stream {
		rec.Packets[i] = packetRecord{Kind: pkt.Kind.String(), Payload: pkt.Payload}
	}
	for _, frame := range result.BracketContextByPort[portName] {
		rec.OpenFrames = append(rec.OpenFrames, frame.Label())
	}
	for _, frame := range result.BracketsClosedBeforeData {
		rec.EarlyCloses = append(rec.EarlyCloses, frame.Label())
	}
	return rec
}

// isComplete reports whether an assembled stream is balanced and contains
// data, mirroring the assembler's completion rule.
func isComplete(stream []*packet.Packet) bool {
	depth := 0
	sawData := false
	for _, pkt := range stream {
		switch pkt.Kind {
		case packet.OpenBracket:
			depth++
		case packet.CloseBracket:
			if depth > 0 {
				depth--
			}
		case packet.Data:
			sawData = true
		}
	}
	return sawData && depth == 0
}

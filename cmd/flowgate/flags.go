package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	TracePath   string
	Node        string
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("FLOWGATE_CONFIG", "configs/example.json"),
		"Path to node definition file (env: FLOWGATE_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("FLOWGATE_CONFIG", "configs/example.json"),
		"Path to node definition file (env: FLOWGATE_CONFIG)")

	flag.StringVar(&cfg.TracePath, "trace",
		getEnv("FLOWGATE_TRACE", ""),
		"Path to packet trace file to replay (env: FLOWGATE_TRACE)")

	flag.StringVar(&cfg.Node, "node",
		getEnv("FLOWGATE_NODE", ""),
		"Node id to replay against; defaults to the only node in the config (env: FLOWGATE_NODE)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FLOWGATE_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FLOWGATE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FLOWGATE_LOG_FORMAT", "text"),
		"Log format: json, text (env: FLOWGATE_LOG_FORMAT)")

	flag.BoolVar(&cfg.Validate, "validate", false,
		"Validate the node definition file and exit")

	flag.BoolVar(&cfg.ShowVersion, "version", false,
		"Show version information and exit")

	flag.BoolVar(&cfg.ShowHelp, "help", false,
		"Show usage information and exit")

	flag.Usage = printUsage
	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `flowgate %s - inbound-packet gateway replay tool

Replays a packet trace against a node definition and prints each assembled
sub-stream with its bracket context, one JSON object per line.

Usage:
  flowgate -config <node-definition> -trace <packet-trace> [flags]

Flags:
`, Version)
	flag.PrintDefaults()
}

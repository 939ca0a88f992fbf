package node

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	// LogLevelDebug represents debug-level logs
	LogLevelDebug LogLevel = "DEBUG"
	// LogLevelInfo represents informational logs
	LogLevelInfo LogLevel = "INFO"
	// LogLevelWarn represents warning logs
	LogLevelWarn LogLevel = "WARN"
	// LogLevelError represents error logs
	LogLevelError LogLevel = "ERROR"
)

// LogEntry represents a structured log entry that can be published to NATS
// for live inspection of a running network.
type LogEntry struct {
	Timestamp string   `json:"timestamp"` // RFC3339 format
	Level     LogLevel `json:"level"`
	Node      string   `json:"node"`
	GraphID   string   `json:"graph_id"`
	Message   string   `json:"message"`
	Stack     string   `json:"stack,omitempty"` // Error details for errors
}

// Logger provides structured logging for nodes. It wraps a standard
// slog.Logger for local logging and, when a NATS connection is supplied,
// also publishes entries for remote consumption by monitoring tooling.
type Logger struct {
	nodeID  string
	graphID string
	nc      *nats.Conn
	logger  *slog.Logger
	enabled bool // whether NATS publishing is enabled
}

// NewLogger creates a new node logger. nc may be nil, in which case entries
// are only logged locally.
func NewLogger(nodeID, graphID string, nc *nats.Conn, logger *slog.Logger) *Logger {
	return &Logger{
		nodeID:  nodeID,
		graphID: graphID,
		nc:      nc,
		logger:  logger,
		enabled: nc != nil,
	}
}

// Debug logs a debug-level message
func (nl *Logger) Debug(msg string) {
	nl.DebugContext(context.Background(), msg)
}

// Info logs an info-level message
func (nl *Logger) Info(msg string) {
	nl.InfoContext(context.Background(), msg)
}

// Warn logs a warning-level message
func (nl *Logger) Warn(msg string) {
	nl.WarnContext(context.Background(), msg)
}

// Error logs an error-level message with optional error details
func (nl *Logger) Error(msg string, err error) {
	nl.ErrorContext(context.Background(), msg, err)
}

// DebugContext logs a debug-level message with context
func (nl *Logger) DebugContext(ctx context.Context, msg string) {
	nl.logWithContext(ctx, LogLevelDebug, msg, "")
	if nl.logger != nil {
		nl.logger.Debug(msg, "node", nl.nodeID)
	}
}

// InfoContext logs an info-level message with context
func (nl *Logger) InfoContext(ctx context.Context, msg string) {
	nl.logWithContext(ctx, LogLevelInfo, msg, "")
	if nl.logger != nil {
		nl.logger.Info(msg, "node", nl.nodeID)
	}
}

// WarnContext logs a warning-level message with context
func (nl *Logger) WarnContext(ctx context.Context, msg string) {
	nl.logWithContext(ctx, LogLevelWarn, msg, "")
	if nl.logger != nil {
		nl.logger.Warn(msg, "node", nl.nodeID)
	}
}

// ErrorContext logs an error-level message with optional error details and context
func (nl *Logger) ErrorContext(ctx context.Context, msg string, err error) {
	stack := ""
	if err != nil {
		stack = fmt.Sprintf("%+v", err)
	}
	nl.logWithContext(ctx, LogLevelError, msg, stack)
	if nl.logger != nil {
		nl.logger.Error(msg, "node", nl.nodeID, "error", err)
	}
}

// logWithContext publishes a log entry to NATS with context cancellation support
func (nl *Logger) logWithContext(ctx context.Context, level LogLevel, message, stack string) {
	if !nl.enabled {
		return
	}

	// Check context before performing I/O
	select {
	case <-ctx.Done():
		return
	default:
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Node:      nl.nodeID,
		GraphID:   nl.graphID,
		Message:   message,
		Stack:     stack,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Failed to marshal - log locally but don't fail
		if nl.logger != nil {
			nl.logger.Error("Failed to marshal log entry", "error", err)
		}
		return
	}

	// Guard against the connection being cleared after the enabled check
	nc := nl.nc
	if nc == nil {
		return
	}

	// Publish to NATS subject: logs.{graph_id}.{node}
	subject := fmt.Sprintf("logs.%s.%s", nl.graphID, nl.nodeID)
	if err := nc.Publish(subject, data); err != nil {
		// Failed to publish - log locally but don't fail
		if nl.logger != nil {
			nl.logger.Error("Failed to publish log to NATS", "error", err, "subject", subject)
		}
	}
}

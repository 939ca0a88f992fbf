// Package config loads and validates node definitions for the flowgate
// runtime: which input ports a node has, their addressability, which ports
// forward bracket framing, and whether the node runs in ordered mode.
// Definitions are JSON by convention; YAML files are accepted by extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/flowgate/errors"
)

// PortConfig describes one input port of a node.
type PortConfig struct {
	Name        string `json:"name" yaml:"name"`
	Addressable bool   `json:"addressable,omitempty" yaml:"addressable,omitempty"`
	Forwarding  bool   `json:"forwarding,omitempty" yaml:"forwarding,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeConfig describes one node instance.
type NodeConfig struct {
	Ordered bool         `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Ports   []PortConfig `json:"ports" yaml:"ports"`
}

// LoggingConfig controls node logging for tooling built on this library.
type LoggingConfig struct {
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	NATSURL string `json:"nats_url,omitempty" yaml:"nats_url,omitempty"`
}

// Config is the complete definition file: a graph identity plus the node
// instances whose gateways it drives. The map key is the node id.
type Config struct {
	Version string                `json:"version,omitempty" yaml:"version,omitempty"`
	GraphID string                `json:"graph_id" yaml:"graph_id"`
	Logging LoggingConfig         `json:"logging,omitempty" yaml:"logging,omitempty"`
	Nodes   map[string]NodeConfig `json:"nodes" yaml:"nodes"`
}

// Loader handles configuration loading with environment overrides.
type Loader struct {
	envPrefix  string
	validation bool
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "FLOWGATE",
		validation: true,
	}
}

// EnableValidation enables or disables configuration validation.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads a configuration file, applying defaults, environment
// overrides, and (unless disabled) validation. The file format is chosen by
// extension: .yaml/.yml parse as YAML, anything else as JSON.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %s", errors.ErrConfigNotFound, path),
				"Loader", "LoadFile", "config read")
		}
		return nil, errors.Wrap(err, "Loader", "LoadFile", "config read")
	}

	// Expand ${VAR} references before parsing so secrets and hosts can be
	// injected from the environment.
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := l.defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "LoadFile", "YAML parsing")
		}
	default:
		if err := json.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "LoadFile", "JSON parsing")
		}
	}

	l.applyEnvOverrides(cfg)

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// defaults returns the default configuration.
func (l *Loader) defaults() *Config {
	return &Config{
		Version: "1.0.0",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides lets deployment environments override selected fields
// without editing the definition file.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(l.envPrefix + "_GRAPH_ID"); v != "" {
		cfg.GraphID = v
	}
	if v := os.Getenv(l.envPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(l.envPrefix + "_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(l.envPrefix + "_NATS_URL"); v != "" {
		cfg.Logging.NATSURL = v
	}
}

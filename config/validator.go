package config

import (
	"fmt"
	"regexp"

	"github.com/c360/flowgate/errors"
)

// identifierPattern matches valid node and port names: lowercase start,
// then letters, digits, dashes, or underscores.
var identifierPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9_-]*$`)

// Validate checks the configuration for structural defects. It returns the
// first problem found; wiring defects are Invalid-class errors.
func (c *Config) Validate() error {
	if c.GraphID == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: graph_id", errors.ErrMissingConfig),
			"Config", "Validate", "graph identity check")
	}
	if len(c.Nodes) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: at least one node is required", errors.ErrMissingConfig),
			"Config", "Validate", "node presence check")
	}

	for id, nc := range c.Nodes {
		if !identifierPattern.MatchString(id) {
			return errors.WrapInvalid(
				fmt.Errorf("%w: invalid node id %q", errors.ErrInvalidConfig, id),
				"Config", "Validate", "node id check")
		}
		if err := nc.validate(id); err != nil {
			return err
		}
	}
	return nil
}

// validate checks one node definition.
func (nc NodeConfig) validate(nodeID string) error {
	if len(nc.Ports) == 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: node %q declares no input ports", errors.ErrInvalidConfig, nodeID),
			"Config", "Validate", "port presence check")
	}

	seen := make(map[string]bool, len(nc.Ports))
	for _, pc := range nc.Ports {
		if !identifierPattern.MatchString(pc.Name) {
			return errors.WrapInvalid(
				fmt.Errorf("%w: invalid port name %q on node %q", errors.ErrInvalidConfig, pc.Name, nodeID),
				"Config", "Validate", "port name check")
		}
		if seen[pc.Name] {
			return errors.WrapInvalid(
				fmt.Errorf("%w: duplicate port %q on node %q", errors.ErrInvalidConfig, pc.Name, nodeID),
				"Config", "Validate", "port uniqueness check")
		}
		seen[pc.Name] = true
	}
	return nil
}

package config

import (
	"github.com/c360/flowgate/node"
	"github.com/c360/flowgate/port"
)

// BuildNode constructs a node with its input ports from one node definition.
// Extra node options (logger, metrics) are applied after the config-driven
// ones.
func BuildNode(id string, nc NodeConfig, opts ...node.Option) *node.Node {
	var nodeOpts []node.Option
	if nc.Ordered {
		nodeOpts = append(nodeOpts, node.Ordered())
	}
	nodeOpts = append(nodeOpts, opts...)

	n := node.New(id, nodeOpts...)
	for _, pc := range nc.Ports {
		var portOpts []port.InOption
		if pc.Addressable {
			portOpts = append(portOpts, port.Addressable())
		}
		if pc.Required {
			portOpts = append(portOpts, port.Required())
		}
		if pc.Description != "" {
			portOpts = append(portOpts, port.WithDescription(pc.Description))
		}
		n.AddInPort(port.NewIn(pc.Name, portOpts...))
		if pc.Forwarding {
			n.SetForwarding(pc.Name)
		}
	}
	return n
}

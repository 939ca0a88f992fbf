package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowgate/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validJSON = `{
  "graph_id": "g1",
  "nodes": {
    "transform": {
      "ordered": true,
      "ports": [
        {"name": "in", "forwarding": true, "required": true},
        {"name": "options", "description": "tuning packets"}
      ]
    }
  }
}`

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "node.json", validJSON)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "g1", cfg.GraphID)
	assert.Equal(t, "1.0.0", cfg.Version, "Defaults apply to omitted fields")
	assert.Equal(t, "info", cfg.Logging.Level)

	nc, ok := cfg.Nodes["transform"]
	require.True(t, ok)
	assert.True(t, nc.Ordered)
	require.Len(t, nc.Ports, 2)
	assert.True(t, nc.Ports[0].Forwarding)
	assert.Equal(t, "tuning packets", nc.Ports[1].Description)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "node.yaml", `
graph_id: g2
logging:
  level: debug
nodes:
  splitter:
    ports:
      - name: in
        addressable: true
`)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "g2", cfg.GraphID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Nodes["splitter"].Ports[0].Addressable)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GRAPH_NAME", "expanded-graph")
	path := writeFile(t, "node.json", `{
  "graph_id": "${TEST_GRAPH_NAME}",
  "nodes": {"proc": {"ports": [{"name": "in"}]}}
}`)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-graph", cfg.GraphID)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLOWGATE_GRAPH_ID", "override-graph")
	t.Setenv("FLOWGATE_LOG_LEVEL", "warn")
	path := writeFile(t, "node.json", validJSON)

	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "override-graph", cfg.GraphID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigNotFound))
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeFile(t, "bad.json", `{"graph_id": `)
	_, err := NewLoader().LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing graph id", `{"nodes": {"proc": {"ports": [{"name": "in"}]}}}`},
		{"no nodes", `{"graph_id": "g"}`},
		{"bad node id", `{"graph_id": "g", "nodes": {"BadName": {"ports": [{"name": "in"}]}}}`},
		{"no ports", `{"graph_id": "g", "nodes": {"proc": {"ports": []}}}`},
		{"bad port name", `{"graph_id": "g", "nodes": {"proc": {"ports": [{"name": "2in"}]}}}`},
		{"duplicate port", `{"graph_id": "g", "nodes": {"proc": {"ports": [{"name": "in"}, {"name": "in"}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "node.json", tt.content)
			_, err := NewLoader().LoadFile(path)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestValidationCanBeDisabled(t *testing.T) {
	path := writeFile(t, "node.json", `{"graph_id": "g"}`)
	loader := NewLoader()
	loader.EnableValidation(false)

	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Nodes)
}

func TestBuildNode(t *testing.T) {
	path := writeFile(t, "node.json", validJSON)
	cfg, err := NewLoader().LoadFile(path)
	require.NoError(t, err)

	n := BuildNode("transform", cfg.Nodes["transform"])
	assert.Equal(t, "transform", n.ID())
	assert.True(t, n.IsOrdered())
	assert.True(t, n.IsForwardingInport("in"))
	assert.False(t, n.IsForwardingInport("options"))

	p, ok := n.InPort("in")
	require.True(t, ok)
	assert.True(t, p.IsRequired())

	opt, ok := n.InPort("options")
	require.True(t, ok)
	assert.Equal(t, "tuning packets", opt.Description())
	assert.Equal(t, []string{"in", "options"}, n.InPortNames())
}

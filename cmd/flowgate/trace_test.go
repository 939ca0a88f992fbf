package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowgate/errors"
	"github.com/c360/flowgate/packet"
)

func TestTraceEventPacket(t *testing.T) {
	three := 3

	tests := []struct {
		name      string
		event     TraceEvent
		wantKind  packet.Kind
		wantScope string
		wantIndex int
	}{
		{
			name:      "data packet",
			event:     TraceEvent{Port: "in", Kind: "data", Payload: "hello"},
			wantKind:  packet.Data,
			wantIndex: packet.NoIndex,
		},
		{
			name:      "open bracket with scope",
			event:     TraceEvent{Port: "in", Kind: "open", Payload: "batch", Scope: "s1"},
			wantKind:  packet.OpenBracket,
			wantScope: "s1",
			wantIndex: packet.NoIndex,
		},
		{
			name:      "close bracket with index",
			event:     TraceEvent{Port: "in", Kind: "close", Index: &three},
			wantKind:  packet.CloseBracket,
			wantIndex: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := tt.event.packet()
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, pkt.Kind)
			assert.Equal(t, tt.event.Payload, pkt.Payload)
			assert.Equal(t, tt.wantScope, pkt.Scope)
			assert.Equal(t, tt.wantIndex, pkt.Index)
		})
	}
}

func TestTraceEventPacketUnknownKind(t *testing.T) {
	_, err := TraceEvent{Port: "in", Kind: "bracket"}.packet()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestLoadTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"port": "in", "kind": "open", "payload": "batch"},
  {"port": "in", "kind": "data", "payload": 1},
  {"port": "in", "kind": "close", "payload": "batch"}
]`), 0o600))

	events, err := loadTrace(path)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "open", events[0].Kind)
	assert.Equal(t, float64(1), events[1].Payload)
}

func TestLoadTraceErrors(t *testing.T) {
	_, err := loadTrace(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o600))
	_, err = loadTrace(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name   string
		stream []*packet.Packet
		want   bool
	}{
		{
			name:   "bare data",
			stream: []*packet.Packet{packet.New(1)},
			want:   true,
		},
		{
			name: "balanced stream",
			stream: []*packet.Packet{
				packet.Open("b"), packet.New(1), packet.Close("b"),
			},
			want: true,
		},
		{
			name: "unterminated stream",
			stream: []*packet.Packet{
				packet.Open("b"), packet.New(1),
			},
			want: false,
		},
		{
			name: "brackets without data",
			stream: []*packet.Packet{
				packet.Open("b"), packet.Close("b"),
			},
			want: false,
		},
		{
			name:   "empty stream",
			stream: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isComplete(tt.stream))
		})
	}
}

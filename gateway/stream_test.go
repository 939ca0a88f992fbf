package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowgate/packet"
	"github.com/c360/flowgate/testutil"
)

func kinds(pkts []*packet.Packet) []packet.Kind {
	out := make([]packet.Kind, len(pkts))
	for i, p := range pkts {
		out[i] = p.Kind
	}
	return out
}

func TestHasCompleteStream(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	ok, err := gw.HasCompleteStream(nil)
	require.NoError(t, err)
	assert.False(t, ok, "Empty buffer holds no stream")

	p.Receive(packet.Open("L"))
	ok, _ = gw.HasCompleteStream(nil)
	assert.False(t, ok, "Open bracket alone is not a stream")

	p.Receive(packet.New(1))
	ok, _ = gw.HasCompleteStream(nil)
	assert.False(t, ok, "Unclosed bracket is not a complete stream")

	p.Receive(packet.New(2))
	p.Receive(packet.Close("L"))
	ok, err = gw.HasCompleteStream(nil)
	require.NoError(t, err)
	assert.True(t, ok, "Balanced brackets around data form a complete stream")

	// The check must not have consumed anything
	assert.Equal(t, 4, p.Len("", packet.NoIndex))
}

func TestHasCompleteStreamBareData(t *testing.T) {
	gw, n := newGateway(t)
	inPort(t, n, "in").Receive(packet.New("solo"))

	ok, err := gw.HasCompleteStream(nil)
	require.NoError(t, err)
	assert.True(t, ok, "A bare data packet is itself a valid stream")
}

func TestHasCompleteStreamPredicate(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	p.Receive(packet.Open("outer"))
	p.Receive(packet.Open("inner"))
	p.Receive(packet.New(10))
	p.Receive(packet.Close("inner"))
	p.Receive(packet.Close("outer"))

	var seenLabels []any
	ok, err := gw.HasCompleteStream(func(pkt *packet.Packet, openLabels []any) bool {
		seenLabels = append([]any{}, openLabels...)
		return pkt.Payload.(int) > 5
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{"outer", "inner"}, seenLabels, "Predicate must see open labels outermost first")

	ok, err = gw.HasCompleteStream(func(pkt *packet.Packet, _ []any) bool {
		return pkt.Payload.(int) > 100
	})
	require.NoError(t, err)
	assert.False(t, ok, "A failing predicate makes the stream incomplete")
}

func TestHasCompleteStreamEmptyBracketPair(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	p.Receive(packet.Open("L"))
	p.Receive(packet.Close("L"))

	ok, err := gw.HasCompleteStream(nil)
	require.NoError(t, err)
	assert.False(t, ok, "A bracket pair with no data inside is not a stream")
}

func TestHasCompleteStreamMultiPortAND(t *testing.T) {
	gw, n := newGateway(t, "a", "b")
	testutil.Load(inPort(t, n, "a"), "", testutil.Bracketed("L", 1)...)

	ok, err := gw.HasCompleteStream(nil, Ref("a"), Ref("b"))
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.Load(inPort(t, n, "b"), "", testutil.Datas("bare")...)
	ok, err = gw.HasCompleteStream(nil, Ref("a"), Ref("b"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadStreamFullFrame(t *testing.T) {
	gw, n := newGateway(t)
	testutil.Load(inPort(t, n, "in"), "", testutil.Bracketed("L", 1, 2)...)

	streams, err := gw.ReadStream()
	require.NoError(t, err)
	require.Len(t, streams, 1)

	stream := streams[0]
	require.Len(t, stream, 4, "The whole framed sub-stream comes out as one unit")
	assert.Equal(t, []packet.Kind{
		packet.OpenBracket, packet.Data, packet.Data, packet.CloseBracket,
	}, kinds(stream))

	// Nothing is left behind
	ok, _ := gw.HasPackets(nil)
	assert.False(t, ok)
}

func TestReadStreamBareDataIsOneElementStream(t *testing.T) {
	gw, n := newGateway(t)
	inPort(t, n, "in").Receive(packet.New("solo"))

	streams, err := gw.ReadStream()
	require.NoError(t, err)
	require.Len(t, streams[0], 1)
	assert.Equal(t, "solo", streams[0][0].Payload)
}

func TestReadStreamResetOnNewOuterBracket(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	// First frame never closes before a second outer frame begins
	p.Receive(packet.Open("stale"))
	p.Receive(packet.New("dropped"))
	p.Receive(packet.Open("fresh"))
	p.Receive(packet.New("kept"))
	p.Receive(packet.Close("fresh"))

	streams, err := gw.ReadStream()
	require.NoError(t, err)

	stream := streams[0]
	require.Len(t, stream, 3, "The stale partial frame must be discarded")
	assert.Equal(t, "fresh", stream[0].Payload)
	assert.Equal(t, "kept", stream[1].Payload)
	assert.Equal(t, packet.CloseBracket, stream[2].Kind)
}

func TestReadStreamPartialOnExhaustion(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	p.Receive(packet.Open("L"))
	p.Receive(packet.New(1))
	// No close bracket: upstream has not produced it yet

	streams, err := gw.ReadStream()
	require.NoError(t, err, "Truncation is a legitimate partial result, not an error")
	require.Len(t, streams[0], 2)
	assert.Equal(t, packet.OpenBracket, streams[0][0].Kind)
	assert.Equal(t, 1, streams[0][1].Payload)
}

func TestReadStreamNestedFrames(t *testing.T) {
	gw, n := newGateway(t)
	p := inPort(t, n, "in")

	p.Receive(packet.Open("outer"))
	p.Receive(packet.Open("inner"))
	p.Receive(packet.New(1))
	p.Receive(packet.Close("inner"))
	p.Receive(packet.New(2))
	p.Receive(packet.Close("outer"))

	streams, err := gw.ReadStream()
	require.NoError(t, err)
	assert.Len(t, streams[0], 6, "Nested frames stay inside the outer stream")
}

func TestReadStreamMultiPort(t *testing.T) {
	gw, n := newGateway(t, "a", "b")
	testutil.Load(inPort(t, n, "a"), "", testutil.Bracketed("L", 1)...)
	testutil.Load(inPort(t, n, "b"), "", testutil.Datas("bare")...)

	streams, err := gw.ReadStream(Ref("a"), Ref("b"))
	require.NoError(t, err)
	require.Len(t, streams, 2)
	assert.Len(t, streams[0], 3)
	assert.Len(t, streams[1], 1)
}

func TestReadValueSkipsBrackets(t *testing.T) {
	gw, n := newGateway(t)
	testutil.Load(inPort(t, n, "in"), "", testutil.Bracketed("L", "payload")...)

	values, err := gw.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, "payload", values[0])
}

func TestReadValuePositionalAbsence(t *testing.T) {
	gw, n := newGateway(t, "a", "b")
	inPort(t, n, "b").Receive(packet.New(7))

	values, err := gw.ReadValue(Ref("a"), Ref("b"))
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Nil(t, values[0], "Port with no value must yield a nil entry")
	assert.Equal(t, 7, values[1])
}

func TestListAttached(t *testing.T) {
	n := testutil.NewTestNode("proc")
	p, _ := n.InPort("in")
	p.Attach(packet.NoIndex, "upstream-a")
	p.Receive(packet.New(1))

	gw := New(n, "", NewResult())

	attached, err := gw.ListAttached()
	require.NoError(t, err)
	require.Len(t, attached, 1)
	require.Len(t, attached[0], 1)
	assert.Equal(t, "upstream-a", attached[0][0].Source)

	// Pure read: no activation, no consumption
	assert.False(t, gw.Result().Activated)
	assert.Equal(t, int64(0), n.Load())
	assert.Equal(t, 1, p.Len("", packet.NoIndex))

	_, err = gw.ListAttached("missing")
	require.Error(t, err)
}

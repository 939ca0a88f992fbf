package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassString(t *testing.T) {
	tests := []struct {
		name     string
		class    ErrorClass
		expected string
	}{
		{"transient", ErrorTransient, "transient"},
		{"invalid", ErrorInvalid, "invalid"},
		{"fatal", ErrorFatal, "fatal"},
		{"unknown", ErrorClass(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.class.String())
		})
	}
}

func TestWrapFormat(t *testing.T) {
	base := New("boom")
	err := Wrap(base, "Gateway", "Read", "port lookup")
	require.Error(t, err)
	assert.Equal(t, "Gateway.Read: port lookup failed: boom", err.Error())
	assert.True(t, Is(err, base), "Wrap must preserve the error chain")

	assert.NoError(t, Wrap(nil, "Gateway", "Read", "anything"))
	assert.NoError(t, WrapInvalid(nil, "Gateway", "Read", "anything"))
	assert.NoError(t, WrapTransient(nil, "Gateway", "Read", "anything"))
	assert.NoError(t, WrapFatal(nil, "Gateway", "Read", "anything"))
}

func TestClassifiedWrappers(t *testing.T) {
	base := New("boom")

	invalid := WrapInvalid(base, "Gateway", "Read", "validation")
	assert.True(t, IsInvalid(invalid))
	assert.False(t, IsTransient(invalid))
	assert.False(t, IsFatal(invalid))
	assert.Equal(t, ErrorInvalid, Classify(invalid))

	transient := WrapTransient(base, "Logger", "publish", "NATS send")
	assert.True(t, IsTransient(transient))
	assert.Equal(t, ErrorTransient, Classify(transient))

	fatal := WrapFatal(base, "Queue", "Push", "storage")
	assert.True(t, IsFatal(fatal))
	assert.Equal(t, ErrorFatal, Classify(fatal))

	var ce *ClassifiedError
	require.True(t, As(invalid, &ce))
	assert.Equal(t, "Gateway", ce.Component)
	assert.Equal(t, "Read", ce.Operation)
	assert.True(t, Is(ce.Unwrap(), base))
}

func TestSentinelClassification(t *testing.T) {
	wiring := fmt.Errorf("context: %w", ErrUnknownPort)
	assert.True(t, IsInvalid(wiring))
	assert.Equal(t, ErrorInvalid, Classify(wiring))

	assert.True(t, IsInvalid(ErrAddressabilityMismatch))
	assert.True(t, IsInvalid(ErrUnbalancedBracket))
	assert.True(t, IsInvalid(ErrInvalidConfig))

	assert.True(t, IsTransient(ErrConnectionLost))
	assert.True(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(context.DeadlineExceeded))

	assert.True(t, IsFatal(ErrQueueClosed))

	// Unknown errors default to transient so the scheduler may retry
	assert.Equal(t, ErrorTransient, Classify(New("mystery")))
}

func TestNilSafety(t *testing.T) {
	assert.False(t, IsInvalid(nil))
	assert.False(t, IsTransient(nil))
	assert.False(t, IsFatal(nil))
	assert.Equal(t, ErrorTransient, Classify(nil))
}

func TestClassifiedErrorMessage(t *testing.T) {
	ce := &ClassifiedError{Class: ErrorInvalid, Err: New("inner")}
	assert.Equal(t, "inner", ce.Error(), "Empty message falls back to wrapped error")

	ce.Message = "outer context"
	assert.Equal(t, "outer context", ce.Error())
}

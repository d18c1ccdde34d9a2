package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"listings-web/internal/port"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	ctx := ContextWithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFromContext(ctx))
}

func TestLoggerDefaultsToNop(t *testing.T) {
	assert.Equal(t, port.NopLogger{}, LoggerFromContext(context.Background()))
}

// Package contextkeys carries request-scoped values through a context.
package contextkeys

import (
	"context"

	"listings-web/internal/port"
)

type traceIDKeyType struct{}
type loggerKeyType struct{}

var (
	traceIDKey = traceIDKeyType{}
	loggerKey  = loggerKeyType{}
)

// ContextWithTraceID stores the request trace id.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace id, or "" when there is none.
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// ContextWithLogger stores a request logger.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the request logger, or a no-op logger.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return port.NopLogger{}
}

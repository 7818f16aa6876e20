// Package ctxutil carries request scoped values through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDKey is the log field and context key of the trace id.
const TraceIDKey = "trace_id"

const traceIDCtxKey contextKey = TraceIDKey

// GetTraceID gets trace id from context.Context.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDCtxKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceIDCtxKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

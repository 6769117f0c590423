package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of the keys this package stores in a context.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context
const TraceIDKey ContextKey = "traceID"

// TraceIDHeader carries the trace ID in requests and responses.
const TraceIDHeader = "X-Trace-ID"

// SetTraceID adds a freshly generated trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// WithTraceID adds the given trace ID to the context. An empty or malformed
// ID is replaced by a generated one.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if _, err := uuid.Parse(traceID); err != nil {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

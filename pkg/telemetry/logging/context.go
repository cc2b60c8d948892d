package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// RouterTypeKey is the context key for the targeted router vendor.
	RouterTypeKey contextKey = "router_type"

	// EndpointKey is the context key for the targeted router host.
	EndpointKey contextKey = "endpoint"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

// WithRouter adds the router type and endpoint to the context.
func WithRouter(ctx context.Context, routerType, endpoint string) context.Context {
	ctx = context.WithValue(ctx, RouterTypeKey, routerType)
	return context.WithValue(ctx, EndpointKey, endpoint)
}

// GetRouterType retrieves the router type from the context.
func GetRouterType(ctx context.Context) string {
	return getString(ctx, RouterTypeKey)
}

// GetEndpoint retrieves the router endpoint from the context.
func GetEndpoint(ctx context.Context) string {
	return getString(ctx, EndpointKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return getString(ctx, TraceIDKey)
}

// ExtractContextFields returns the request-scoped fields in ctx as
// key-value pairs suitable for slog.
func ExtractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	for _, key := range []contextKey{RequestIDKey, RouterTypeKey, EndpointKey, TraceIDKey} {
		if v := getString(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}

func getString(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

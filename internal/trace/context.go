package trace

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the given request/run ID for log
// correlation. [Begin] and [Op.End] include it as "request_id" in their
// start/end log lines when present.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

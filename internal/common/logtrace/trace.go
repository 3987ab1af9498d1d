package logtrace

import (
	"context"
)

type requestIdContextKey string

// RequestIdKey is the context key under which the request-logger middleware
// stores the request ID.
const RequestIdKey = requestIdContextKey("requestId")

// RequestIdFromContext extracts the request ID from the context. Returns an
// empty string if no request ID is present.
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(RequestIdKey).(string)
	if !ok {
		return ""
	}
	return r
}

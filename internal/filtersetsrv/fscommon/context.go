package fscommon

import (
	"context"
)

type ctxKeyType string

const (
	ctxUserContextKey ctxKeyType = "FilterSetUserContext"
	ctxTestContextKey ctxKeyType = "FilterSetTestContext"
)

// WithUserContext returns a new context carrying the caller identity.
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, ctxUserContextKey, user)
}

// GetUserContext returns the caller identity from the context, or nil when
// the request is unauthenticated.
func GetUserContext(ctx context.Context) *UserContext {
	user, ok := ctx.Value(ctxUserContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return user
}

// WithTestContext marks the context as belonging to a test request.
func WithTestContext(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxTestContextKey, v)
}

// GetTestContext returns the test marker stored by WithTestContext.
func GetTestContext(ctx context.Context) any {
	return ctx.Value(ctxTestContextKey)
}

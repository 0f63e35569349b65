package facet

import (
	"context"
	"net/http"
)

// contextKey uses the stored value's type as the key, so each type gets its
// own slot without exported key constants.
type contextKey[T any] struct{}

// WithValue stores a typed value on a context.
func WithValue[T any](ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, contextKey[T]{}, val)
}

// SetValue stores a typed value on the request context. For use in
// middleware; operations read it back with GetValue.
func SetValue[T any](r *http.Request, val T) *http.Request {
	return r.WithContext(WithValue(r.Context(), val))
}

// GetValue retrieves a typed value from the context.
func GetValue[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}

// ValueOr retrieves a typed value from the context, or returns the fallback
// when no value of that type was stored.
func ValueOr[T any](ctx context.Context, fallback T) T {
	if val, ok := GetValue[T](ctx); ok {
		return val
	}
	return fallback
}

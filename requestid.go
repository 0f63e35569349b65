package facet

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// requestID is the context value type carrying the request's ID.
type requestID string

// requestIDOptions holds RequestID middleware settings.
type requestIDOptions struct {
	header    string
	generator func() string
}

// RequestIDOption configures the RequestID middleware.
type RequestIDOption func(*requestIDOptions)

// WithIDHeader changes the header the request ID is read from and echoed on.
func WithIDHeader(header string) RequestIDOption {
	return func(o *requestIDOptions) {
		o.header = header
	}
}

// WithIDGenerator supplies a custom ID generator.
func WithIDGenerator(gen func() string) RequestIDOption {
	return func(o *requestIDOptions) {
		o.generator = gen
	}
}

// RequestID returns middleware that assigns a unique request ID to each
// request. The ID is read from the request header when present, generated
// otherwise, stored in the context, and set on the response header.
func RequestID(opts ...RequestIDOption) Middleware {
	o := requestIDOptions{
		header:    "X-Request-ID",
		generator: randomID,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(o.header)
			if id == "" {
				id = o.generator()
			}

			w.Header().Set(o.header, id)
			next.ServeHTTP(w, SetValue(r, requestID(id)))
		})
	}
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) string {
	return string(ValueOr(r.Context(), requestID("")))
}

func randomID() string {
	b := make([]byte, 16)
	//nolint:errcheck,gosec // crypto/rand.Read always returns nil error
	rand.Read(b)
	return hex.EncodeToString(b)
}

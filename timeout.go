package facet

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Timeout returns middleware that bounds the request context. Operations
// that return the context error render as a 504 problem through the
// dispatcher; if the deadline fires before the handler writes anything,
// the middleware writes the 504 problem itself.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 && rec.size == 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				writeProblem(w, nil, context.DeadlineExceeded)
			}
		})
	}
}

package facet

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware is the standard middleware signature compatible with the entire
// Go middleware ecosystem. Adapters apply it around the whole mux, so it
// also wraps raw handlers registered with Handle.
type Middleware func(next http.Handler) http.Handler

// Recovery returns middleware that recovers from panics using the default
// slog logger.
func Recovery() Middleware {
	return RecoveryWith(slog.Default())
}

// RecoveryWith returns panic-recovery middleware with an explicit logger.
// The client gets a problem document in the representation its Accept
// header selects, the same shape the dispatcher produces for operation
// errors. The panic value stays in the log and out of the response.
func RecoveryWith(logger *slog.Logger) Middleware {
	codecs := newCodecSet(nil)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				enc, _ := codecs.negotiate(r.Header.Get("Accept"))
				writeProblem(w, enc, &Problem{
					Type:   "about:blank",
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

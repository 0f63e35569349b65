package facet

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// REST is the HTTP surface adapter. It maps every operation kind onto a
// method and pattern on http.ServeMux and implements http.Handler:
//
//	list    GET    /{resource}
//	create  POST   /{resource}
//	get     GET    /{resource}/{id}
//	replace PUT    /{resource}/{id}
//	update  PATCH  /{resource}/{id}
//	delete  DELETE /{resource}/{id}
//	action  POST   /{resource}/{id}/{action}   (or /{resource}/{action})
type REST struct {
	reg *Registry
	mux *http.ServeMux

	prefix       string
	middleware   []Middleware
	errorHandler ErrorHandler
	maxBody      int64
}

// RESTOption configures a REST adapter.
type RESTOption func(*REST)

// WithPrefix mounts all resources under a path prefix such as "/v1".
func WithPrefix(prefix string) RESTOption {
	return func(a *REST) {
		a.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithErrorHandler sets a custom error handler for the adapter.
func WithErrorHandler(h ErrorHandler) RESTOption {
	return func(a *REST) {
		a.errorHandler = h
	}
}

// WithMaxBody limits request body size in bytes. Oversized bodies fail
// decoding with 400 and a MaxBytesError detail.
func WithMaxBody(maxBytes int64) RESTOption {
	return func(a *REST) {
		a.maxBody = maxBytes
	}
}

// NewREST mounts the registry's resources onto a new REST adapter.
// The registry is sealed: registering resources or operations afterwards
// panics.
func NewREST(reg *Registry, opts ...RESTOption) *REST {
	a := &REST{
		reg: reg,
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(a)
	}

	reg.seal()
	for _, rs := range reg.resources {
		for _, op := range rs.ops {
			method, pattern := a.route(op)
			a.mux.Handle(method+" "+pattern, a.opHandler(op))
		}
	}
	return a
}

// route derives the method and mux pattern for an operation.
func (a *REST) route(op *operation) (method, pattern string) {
	base := a.prefix + "/" + op.resource.name
	entity := base + "/{id}"

	switch op.kind {
	case opList:
		return http.MethodGet, base
	case opCreate:
		return http.MethodPost, base
	case opGet:
		return http.MethodGet, entity
	case opReplace:
		return http.MethodPut, entity
	case opUpdate:
		return http.MethodPatch, entity
	case opDelete:
		return http.MethodDelete, entity
	case opAction:
		if op.collection {
			return http.MethodPost, base + "/" + op.action
		}
		return http.MethodPost, entity + "/" + op.action
	}
	panic("facet: unreachable operation kind")
}

// httpParams adapts *http.Request to the binding parameter source.
type httpParams struct {
	r *http.Request
}

func (p httpParams) pathParam(name string) string   { return p.r.PathValue(name) }
func (p httpParams) queryParam(name string) string  { return p.r.URL.Query().Get(name) }
func (p httpParams) headerParam(name string) string { return p.r.Header.Get(name) }

// opHandler wraps an operation into an http.Handler running the shared
// dispatch pipeline with negotiated codecs.
func (a *REST) opHandler(op *operation) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Negotiate the response codec up front so errors render in the
		// representation the client asked for.
		enc, ok := a.reg.codecs.negotiate(r.Header.Get("Accept"))
		if !ok {
			a.writeError(w, r, nil, Error(http.StatusNotAcceptable, "no encoder satisfies Accept header"))
			return
		}

		dec, ok := a.reg.codecs.forContentType(r.Header.Get("Content-Type"))
		if !ok {
			a.writeError(w, r, enc, Error(http.StatusUnsupportedMediaType, "unsupported content type"))
			return
		}

		decode := func(target any) error {
			if r.Body == nil || r.ContentLength == 0 {
				return nil
			}
			body := r.Body
			if a.maxBody > 0 {
				body = http.MaxBytesReader(w, body, a.maxBody)
			}
			return dec.Decode(body, target)
		}

		out, status, err := a.reg.dispatch(r.Context(), op, httpParams{r: r}, decode)
		if err != nil {
			a.writeError(w, r, enc, err)
			return
		}

		a.render(w, enc, out, status)
	})
}

// CookieSetter is optionally implemented by output types to set cookies.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter is optionally implemented by output types to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// render writes a successful output through the negotiated codec. The
// output may adjust cookies, headers, and the status code.
func (a *REST) render(w http.ResponseWriter, enc Codec, out any, status int) {
	if out == nil {
		w.WriteHeader(status)
		return
	}

	if cs, ok := out.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := out.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}
	if sc, ok := out.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, out)
}

// writeError renders an error as an RFC 9457 problem through the codec the
// client negotiated. A nil codec falls back to JSON.
func (a *REST) writeError(w http.ResponseWriter, r *http.Request, enc Codec, err error) {
	if a.errorHandler != nil {
		a.errorHandler(w, r, err)
		return
	}
	writeProblem(w, enc, err)
}

func writeProblem(w http.ResponseWriter, enc Codec, err error) {
	if enc == nil {
		enc = jsonCodec{}
	}

	problem := problemFrom(err)

	ct := enc.ContentType()
	if ct == "application/json" {
		ct = "application/problem+json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(problem.Status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, problem)
}

// Use adds middleware to the adapter. Middleware is applied in the order added.
func (a *REST) Use(mw ...Middleware) {
	a.middleware = append(a.middleware, mw...)
}

// Handle registers a raw http.Handler on the adapter's mux, outside the
// resource model. Useful for operational surfaces such as /metrics.
func (a *REST) Handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// ServeHTTP implements http.Handler.
func (a *REST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(a.mux)
	for i := len(a.middleware) - 1; i >= 0; i-- {
		handler = a.middleware[i](handler)
	}
	handler.ServeHTTP(w, r)
}

// ListenAndServe starts an HTTP server on the given address with default
// timeouts. It blocks until the context is cancelled, then shuts down
// gracefully. Use Serve with a ServerConfig for full control.
func (a *REST) ListenAndServe(ctx context.Context, addr string) error {
	return a.Serve(ctx, ServerConfig{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	})
}

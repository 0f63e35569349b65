package facet

import (
	"bytes"
	"net/http"
)

// RPC is a single-endpoint surface adapter: every operation is reachable
// as a POSTed call envelope, addressed by canonical call name. It exists
// to keep the resource model honest — the same registry that serves REST
// serves this protocol with no changes to business logic.
//
// Request envelope (any registered codec that round-trips maps, e.g. JSON
// or YAML):
//
//	{"call": "tasks.get", "params": {"id": "7"}}
//	{"call": "tasks.create", "input": {"title": "write docs"}}
//
// Responses wrap the output or a problem:
//
//	{"result": {...}}
//	{"error": {"status": 404, ...}}
type RPC struct {
	reg          *Registry
	errorHandler ErrorHandler
}

// RPCOption configures an RPC adapter.
type RPCOption func(*RPC)

// WithRPCErrorHandler sets a custom error handler for the adapter.
func WithRPCErrorHandler(h ErrorHandler) RPCOption {
	return func(a *RPC) {
		a.errorHandler = h
	}
}

// NewRPC mounts the registry onto a new RPC adapter and seals it.
func NewRPC(reg *Registry, opts ...RPCOption) *RPC {
	a := &RPC{reg: reg}
	for _, opt := range opts {
		opt(a)
	}
	reg.seal()
	return a
}

// callEnvelope is the decoded request envelope. Params carry what REST
// would read from the path, query, and headers; Input carries what REST
// would read from the body.
type callEnvelope struct {
	Call   string            `json:"call" yaml:"call"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Input  map[string]any    `json:"input,omitempty" yaml:"input,omitempty"`
}

// rpcResult wraps a successful output.
type rpcResult struct {
	Result any `json:"result" yaml:"result"`
}

// rpcFault wraps a failed call.
type rpcFault struct {
	Error *Problem `json:"error" yaml:"error"`
}

// envelopeParams serves bound parameters from the call envelope. Path and
// query parameters both resolve against the params map; headers come from
// the carrying HTTP request.
type envelopeParams struct {
	params map[string]string
	header http.Header
}

func (p envelopeParams) pathParam(name string) string   { return p.params[name] }
func (p envelopeParams) queryParam(name string) string  { return p.params[name] }
func (p envelopeParams) headerParam(name string) string { return p.header.Get(name) }

// ServeHTTP implements http.Handler.
func (a *RPC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	codec, ok := a.reg.codecs.forContentType(r.Header.Get("Content-Type"))
	if !ok {
		a.fail(w, r, jsonCodec{}, Error(http.StatusUnsupportedMediaType, "unsupported content type"))
		return
	}

	if r.Method != http.MethodPost {
		a.fail(w, r, codec, Error(http.StatusMethodNotAllowed, "calls must be POSTed"))
		return
	}

	var env callEnvelope
	if err := codec.Decode(r.Body, &env); err != nil {
		a.fail(w, r, codec, Errorf(http.StatusBadRequest, "malformed envelope: %v", err))
		return
	}
	if env.Call == "" {
		a.fail(w, r, codec, Error(http.StatusBadRequest, "missing call name"))
		return
	}

	op, ok := a.reg.lookup(env.Call)
	if !ok {
		a.fail(w, r, codec, Errorf(http.StatusNotFound, "unknown call %q", env.Call))
		return
	}

	src := envelopeParams{params: env.Params, header: r.Header}

	// The body decoder round-trips the envelope's input through the same
	// codec, so struct tags behave exactly as they do on the REST surface.
	decode := func(target any) error {
		if env.Input == nil {
			return nil
		}
		var buf bytes.Buffer
		if err := codec.Encode(&buf, env.Input); err != nil {
			return err
		}
		return codec.Decode(&buf, target)
	}

	out, status, err := a.reg.dispatch(r.Context(), op, src, decode)
	if err != nil {
		a.fail(w, r, codec, err)
		return
	}

	// The envelope always carries a body; a 204 would forbid one.
	if status == http.StatusNoContent {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	codec.Encode(w, &rpcResult{Result: out})
}

func (a *RPC) fail(w http.ResponseWriter, r *http.Request, codec Codec, err error) {
	if a.errorHandler != nil {
		a.errorHandler(w, r, err)
		return
	}

	problem := problemFrom(err)
	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(problem.Status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	codec.Encode(w, &rpcFault{Error: problem})
}

package facet

import (
	"fmt"
	"regexp"
	"sync"
)

// Registry is the transport-independent model of an API surface: named
// resources, their operations, the codec set, and cross-cutting hooks.
// Adapters mount a registry to expose it on a wire protocol.
type Registry struct {
	title   string
	version string

	resources []*Resource
	byName    map[string]*Resource
	calls     map[string]*operation

	validator Validator
	metrics   *Metrics

	userCodecs []Codec
	codecs     *codecSet

	sealed bool
	mu     sync.Mutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTitle sets the API title (used in the surface description).
func WithTitle(title string) RegistryOption {
	return func(reg *Registry) {
		reg.title = title
	}
}

// WithVersion sets the API version (used in the surface description).
func WithVersion(version string) RegistryOption {
	return func(reg *Registry) {
		reg.version = version
	}
}

// WithValidator sets a global input validator.
func WithValidator(v Validator) RegistryOption {
	return func(reg *Registry) {
		reg.validator = v
	}
}

// WithCodec registers an additional wire codec.
func WithCodec(c Codec) RegistryOption {
	return func(reg *Registry) {
		reg.userCodecs = append(reg.userCodecs, c)
	}
}

// WithMetrics attaches dispatch metrics. Every adapter mounted on the
// registry reports through the same collector.
func WithMetrics(m *Metrics) RegistryOption {
	return func(reg *Registry) {
		reg.metrics = m
	}
}

// New creates a new Registry with the given options.
func New(opts ...RegistryOption) *Registry {
	reg := &Registry{
		byName: make(map[string]*Resource),
		calls:  make(map[string]*operation),
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.codecs = newCodecSet(reg.userCodecs)
	return reg
}

// resourceNameRe restricts resource and action names to what every adapter
// can address: lowercase segments usable in a URL path and a call name.
var resourceNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Resource declares a named resource on the registry. Names must be unique
// and lowercase; registering a duplicate panics.
func (reg *Registry) Resource(name string, opts ...ResourceOption) *Resource {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.sealed {
		panic(fmt.Sprintf("facet: resource %q registered after an adapter mounted the registry", name))
	}
	if !resourceNameRe.MatchString(name) {
		panic(fmt.Sprintf("facet: invalid resource name %q", name))
	}
	if _, ok := reg.byName[name]; ok {
		panic(fmt.Sprintf("facet: duplicate resource %q", name))
	}

	rs := &Resource{
		registry: reg,
		name:     name,
		byKind:   make(map[opKind]*operation),
		actions:  make(map[string]*operation),
	}
	for _, opt := range opts {
		opt(rs)
	}

	reg.resources = append(reg.resources, rs)
	reg.byName[name] = rs
	return rs
}

// seal freezes the registry. Called by adapters on mount so the route
// table and call map cannot drift from what was mounted.
func (reg *Registry) seal() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.sealed = true
}

// lookup resolves a canonical call name such as "tasks.get".
func (reg *Registry) lookup(call string) (*operation, bool) {
	op, ok := reg.calls[call]
	return op, ok
}

package facet

import "fmt"

// Resource is a named, addressable business entity on a registry. It holds
// no transport state: adapters decide how its operations appear on the wire.
type Resource struct {
	registry *Registry

	name string
	desc string
	tags []string

	ops     []*operation
	byKind  map[opKind]*operation
	actions map[string]*operation
}

// ResourceOption configures a Resource.
type ResourceOption func(*Resource)

// WithResourceDescription sets the resource description for the surface description.
func WithResourceDescription(d string) ResourceOption {
	return func(rs *Resource) {
		rs.desc = d
	}
}

// WithResourceTags adds tags to the resource for the surface description.
func WithResourceTags(tags ...string) ResourceOption {
	return func(rs *Resource) {
		rs.tags = append(rs.tags, tags...)
	}
}

// Name returns the resource name.
func (rs *Resource) Name() string { return rs.name }

// addOp attaches an operation, enforcing model invariants: one operation
// per kind, unique action names, a unique canonical call name, no
// registration after mounting.
func (rs *Resource) addOp(op *operation) {
	rs.registry.mu.Lock()
	defer rs.registry.mu.Unlock()

	if rs.registry.sealed {
		panic(fmt.Sprintf("facet: operation %q registered after an adapter mounted the registry", op.callName()))
	}

	if op.kind == opAction {
		if !resourceNameRe.MatchString(op.action) {
			panic(fmt.Sprintf("facet: invalid action name %q on resource %q", op.action, rs.name))
		}
		if _, ok := rs.actions[op.action]; ok {
			panic(fmt.Sprintf("facet: duplicate action %q on resource %q", op.action, rs.name))
		}
	} else if _, ok := rs.byKind[op.kind]; ok {
		panic(fmt.Sprintf("facet: duplicate %s operation on resource %q", op.kind, rs.name))
	}

	// An action named after an operation kind ("get", "delete") would share
	// the kind's call name and shadow it on the RPC surface.
	call := op.callName()
	if _, ok := rs.registry.calls[call]; ok {
		panic(fmt.Sprintf("facet: call name %q already taken on resource %q", call, rs.name))
	}

	if op.kind == opAction {
		rs.actions[op.action] = op
	} else {
		rs.byKind[op.kind] = op
	}

	rs.ops = append(rs.ops, op)
	rs.registry.calls[call] = op
}

package facet

import (
	"context"
	"net/http"
	"reflect"
)

// Void is used as a type parameter when an operation has no input
// or no output (a nil output results in 204 No Content on REST).
type Void struct{}

// Op is the core typed operation signature. The framework owns binding and
// rendering — operations never see transport types.
type Op[In, Out any] func(ctx context.Context, in *In) (*Out, error)

// opKind identifies the role of an operation within its resource. Adapters
// map kinds onto their own wire conventions (the REST adapter maps opList
// to "GET /{resource}", the RPC adapter only uses the call name).
type opKind int

const (
	opList opKind = iota
	opGet
	opCreate
	opReplace
	opUpdate
	opDelete
	opAction
)

func (k opKind) String() string {
	switch k {
	case opList:
		return "list"
	case opGet:
		return "get"
	case opCreate:
		return "create"
	case opReplace:
		return "replace"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	case opAction:
		return "action"
	}
	return "unknown"
}

// operation is the transport-neutral record of a registered operation.
// The generic registration functions capture the typed function in the
// invoke and newInput closures so adapters stay non-generic.
type operation struct {
	resource *Resource
	kind     opKind
	action   string // action name when kind == opAction

	summary    string
	desc       string
	status     int
	deprecated bool
	errors     []int
	collection bool // collection-scoped action (no identifier segment)

	inType  reflect.Type
	outType reflect.Type

	newInput func() any
	invoke   func(ctx context.Context, in any) (any, error)
}

// callName is the canonical transport-neutral name of the operation,
// e.g. "tasks.list" or "tasks.complete".
func (op *operation) callName() string {
	if op.kind == opAction {
		return op.resource.name + "." + op.action
	}
	return op.resource.name + "." + op.kind.String()
}

// OpOption configures an operation at registration time.
type OpOption func(*operation)

// WithStatus sets the default HTTP status code for the operation's output.
func WithStatus(code int) OpOption {
	return func(op *operation) {
		op.status = code
	}
}

// WithSummary sets the operation summary for the surface description.
func WithSummary(s string) OpOption {
	return func(op *operation) {
		op.summary = s
	}
}

// WithDescription sets the operation description for the surface description.
func WithDescription(d string) OpOption {
	return func(op *operation) {
		op.desc = d
	}
}

// WithDeprecated marks the operation as deprecated in the surface description.
func WithDeprecated() OpOption {
	return func(op *operation) {
		op.deprecated = true
	}
}

// WithErrors declares additional error status codes for the surface description.
func WithErrors(codes ...int) OpOption {
	return func(op *operation) {
		op.errors = append(op.errors, codes...)
	}
}

// WithCollection scopes an action to the whole collection instead of a
// single entity. The REST adapter mounts it without an identifier segment.
func WithCollection() OpOption {
	return func(op *operation) {
		op.collection = true
	}
}

// newOperation builds the transport-neutral operation record for a typed
// function and attaches it to the resource.
func newOperation[In, Out any](rs *Resource, kind opKind, action string, fn Op[In, Out], opts ...OpOption) {
	op := &operation{
		resource: rs,
		kind:     kind,
		action:   action,
		inType:   reflect.TypeFor[In](),
		outType:  reflect.TypeFor[Out](),
		newInput: func() any { return new(In) },
		invoke: func(ctx context.Context, in any) (any, error) {
			out, err := fn(ctx, in.(*In))
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			return out, nil
		},
	}

	for _, opt := range opts {
		opt(op)
	}

	// Default status: Create → 201, Void output → 204, otherwise 200.
	if op.status == 0 {
		switch {
		case op.outType == reflect.TypeFor[Void]():
			op.status = http.StatusNoContent
		case kind == opCreate:
			op.status = http.StatusCreated
		default:
			op.status = http.StatusOK
		}
	}

	rs.addOp(op)
}

// List registers the collection listing operation on a resource.
func List[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opList, "", fn, opts...)
}

// Get registers the single-entity fetch operation on a resource.
func Get[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opGet, "", fn, opts...)
}

// Create registers the entity creation operation on a resource.
func Create[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opCreate, "", fn, opts...)
}

// Replace registers the full-entity replacement operation on a resource.
func Replace[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opReplace, "", fn, opts...)
}

// Update registers the partial-update operation on a resource.
func Update[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opUpdate, "", fn, opts...)
}

// Delete registers the entity deletion operation on a resource.
func Delete[In, Out any](rs *Resource, fn Op[In, Out], opts ...OpOption) {
	newOperation(rs, opDelete, "", fn, opts...)
}

// Action registers a named custom operation on a resource. Actions are
// entity-scoped by default; use WithCollection for collection scope.
func Action[In, Out any](rs *Resource, name string, fn Op[In, Out], opts ...OpOption) {
	if name == "" {
		panic("facet: action name must not be empty")
	}
	newOperation(rs, opAction, name, fn, opts...)
}

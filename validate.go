package facet

// SelfValidator is implemented by input types that validate themselves.
// It runs after constraint tags and before the registry's Validator.
type SelfValidator interface {
	Validate() error
}

// Validator validates any operation input. Set one on the registry with
// WithValidator to apply a policy across every resource and adapter.
type Validator interface {
	Validate(in any) error
}

package facet

import (
	"reflect"
	"strings"
	"time"
)

// Schema is a wire-neutral shape description derived from Go types by
// reflection. It deliberately stays a small JSON-Schema-like subset: the
// surface description is for humans and client generators, not validation.
type Schema struct {
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema           `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string          `json:"required,omitempty" yaml:"required,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string          `json:"enum,omitempty" yaml:"enum,omitempty"`

	// AdditionalProperties describes map value shapes.
	AdditionalProperties *Schema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// typeToSchema converts a reflect.Type to a Schema.
func typeToSchema(t reflect.Type) Schema {
	if t.Kind() == reflect.Pointer {
		return typeToSchema(t.Elem())
	}

	switch t {
	case reflect.TypeFor[time.Time]():
		return Schema{Type: "string", Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return Schema{Type: "string", Format: "duration"}
	case reflect.TypeFor[Void]():
		return Schema{}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return Schema{Type: "string"}
	case reflect.Bool:
		return Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return Schema{Type: "number"}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Schema{Type: "string", Format: "byte"}
		}
		items := typeToSchema(t.Elem())
		return Schema{Type: "array", Items: &items}
	case reflect.Array:
		items := typeToSchema(t.Elem())
		return Schema{Type: "array", Items: &items}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Schema{Type: "object"}
		}
		valSchema := typeToSchema(t.Elem())
		return Schema{Type: "object", AdditionalProperties: &valSchema}
	case reflect.Struct:
		return structToSchema(t)
	default:
		return Schema{}
	}
}

// structToSchema converts a struct type to an object Schema. Parameter
// fields are excluded — they are described separately per operation.
func structToSchema(t reflect.Type) Schema {
	schema := Schema{
		Type:       "object",
		Properties: make(map[string]Schema),
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if isParamField(f) {
			continue
		}

		name := fieldName(f)
		if name == "-" {
			continue
		}

		prop := typeToSchema(f.Type)

		if doc := f.Tag.Get("doc"); doc != "" {
			prop.Description = doc
		}
		if enum := f.Tag.Get("enum"); enum != "" {
			prop.Enum = strings.Split(enum, ",")
		}

		schema.Properties[name] = prop

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// bodySchema returns the schema of an input type's body, or nil when the
// type carries no body (Void or params-only).
func bodySchema(t reflect.Type) *Schema {
	switch classifyInput(t) {
	case shapeVoid, shapeParams:
		return nil
	case shapeMixed:
		body, _ := t.FieldByName("Body")
		s := typeToSchema(body.Type)
		return &s
	default: // shapeBodyOnly
		s := typeToSchema(t)
		return &s
	}
}

// outputSchema returns the schema of an output type, nil for Void.
func outputSchema(t reflect.Type) *Schema {
	if t == reflect.TypeFor[Void]() {
		return nil
	}
	s := typeToSchema(t)
	return &s
}

package facet

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// paramSource is the adapter-side view of request parameters. The REST
// adapter reads path values, the query string, and headers; the RPC adapter
// reads the call envelope's params map. Binding never touches the transport
// directly, only this interface.
type paramSource interface {
	pathParam(name string) string
	queryParam(name string) string
	headerParam(name string) string
}

// bodyDecoder decodes the request body into target. Adapters build one
// per request around the negotiated codec.
type bodyDecoder func(target any) error

// inputShape describes how an input type is populated.
type inputShape int

const (
	shapeVoid     inputShape = iota // Void — no params, no body
	shapeBodyOnly                   // entire struct is the body
	shapeParams                     // tagged params only, no body
	shapeMixed                      // tagged params plus a Body field
)

// classifyInput determines how an input type should be bound.
func classifyInput(t reflect.Type) inputShape {
	if t == reflect.TypeFor[Void]() {
		return shapeVoid
	}
	if hasBodyField(t) {
		return shapeMixed
	}
	if hasParamTags(t) {
		return shapeParams
	}
	return shapeBodyOnly
}

func hasBodyField(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := t.FieldByName("Body")
	return ok
}

func hasParamTags(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Tag.Get("path") != "" || f.Tag.Get("query") != "" || f.Tag.Get("header") != "" {
			return true
		}
	}
	return false
}

// bindInput populates a freshly allocated input value from the parameter
// source and body decoder supplied by the adapter.
func bindInput(in any, t reflect.Type, src paramSource, decode bodyDecoder) error {
	shape := classifyInput(t)
	if shape == shapeVoid {
		return nil
	}

	if err := bindParams(in, src); err != nil {
		return err
	}

	switch shape {
	case shapeBodyOnly:
		if err := decode(in); err != nil {
			return fmt.Errorf("%w: %w", ErrBindBody, err)
		}
	case shapeMixed:
		bodyField := reflect.ValueOf(in).Elem().FieldByName("Body")
		if err := decode(bodyField.Addr().Interface()); err != nil {
			return fmt.Errorf("%w: %w", ErrBindBody, err)
		}
	}

	return nil
}

// bindParams binds path, query, and header values to tagged struct fields.
func bindParams(target any, src paramSource) error {
	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		// The Body field is decoded separately.
		if f.Name == "Body" {
			continue
		}

		field := v.Field(i)

		if name := f.Tag.Get("path"); name != "" {
			val := src.pathParam(name)
			if val != "" {
				if err := setFieldValue(field, val); err != nil {
					return fmt.Errorf("%w: %s: %w", ErrBindPath, name, err)
				}
			}
		}

		if name := f.Tag.Get("query"); name != "" {
			val := src.queryParam(name)
			if val == "" {
				val = f.Tag.Get("default")
			}
			if val != "" {
				if err := setFieldValue(field, val); err != nil {
					return fmt.Errorf("%w: %s: %w", ErrBindQuery, name, err)
				}
			}
		}

		if name := f.Tag.Get("header"); name != "" {
			val := src.headerParam(name)
			if val == "" {
				val = f.Tag.Get("default")
			}
			if val != "" {
				if err := setFieldValue(field, val); err != nil {
					return fmt.Errorf("%w: %s: %w", ErrBindHeader, name, err)
				}
			}
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value from a string, supporting common types.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
	return nil
}

package facet

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Description is the transport-neutral document describing an API surface.
// It is generated from the registry by reflection; adapters may also
// annotate it with their own addressing (the REST adapter adds method and
// path).
type Description struct {
	Name         string                `json:"name" yaml:"name"`
	Version      string                `json:"version,omitempty" yaml:"version,omitempty"`
	ContentTypes []string              `json:"contentTypes" yaml:"contentTypes"`
	Resources    []ResourceDescription `json:"resources" yaml:"resources"`
}

// ResourceDescription describes one resource and its operations.
type ResourceDescription struct {
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Operations  []OperationDescription `json:"operations" yaml:"operations"`
}

// OperationDescription describes one operation: its canonical call name,
// parameters, and body/output shapes.
type OperationDescription struct {
	Call        string      `json:"call" yaml:"call"`
	Kind        string      `json:"kind" yaml:"kind"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Status      int         `json:"status" yaml:"status"`
	Deprecated  bool        `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Errors      []int       `json:"errors,omitempty" yaml:"errors,omitempty"`
	Method      string      `json:"method,omitempty" yaml:"method,omitempty"`
	Path        string      `json:"path,omitempty" yaml:"path,omitempty"`
	Parameters  []ParamInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Input       *Schema     `json:"input,omitempty" yaml:"input,omitempty"`
	Output      *Schema     `json:"output,omitempty" yaml:"output,omitempty"`
}

// ParamInfo describes one bound parameter of an operation.
type ParamInfo struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"` // "path", "query", or "header"
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Describe generates the surface description for the registry.
func (reg *Registry) Describe() *Description {
	d := &Description{
		Name:         reg.title,
		Version:      reg.version,
		ContentTypes: reg.codecs.contentTypes(),
		Resources:    make([]ResourceDescription, 0, len(reg.resources)),
	}

	for _, rs := range reg.resources {
		rd := ResourceDescription{
			Name:        rs.name,
			Description: rs.desc,
			Tags:        rs.tags,
			Operations:  make([]OperationDescription, 0, len(rs.ops)),
		}
		for _, op := range rs.ops {
			rd.Operations = append(rd.Operations, describeOp(op))
		}
		d.Resources = append(d.Resources, rd)
	}

	return d
}

func describeOp(op *operation) OperationDescription {
	od := OperationDescription{
		Call:        op.callName(),
		Kind:        op.kind.String(),
		Summary:     op.summary,
		Description: op.desc,
		Status:      op.status,
		Deprecated:  op.deprecated,
		Errors:      op.errors,
		Parameters:  paramInfos(op.inType),
		Input:       bodySchema(op.inType),
		Output:      outputSchema(op.outType),
	}
	if op.kind == opAction {
		od.Kind = "action:" + op.action
	}
	return od
}

// paramInfos extracts bound parameter descriptions from an input type.
func paramInfos(t reflect.Type) []ParamInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []ParamInfo
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "Body" {
			continue
		}

		for _, in := range []string{"path", "query", "header"} {
			name := f.Tag.Get(in)
			if name == "" {
				continue
			}
			params = append(params, ParamInfo{
				Name:        name,
				In:          in,
				Type:        typeToSchema(f.Type).Type,
				Description: f.Tag.Get("doc"),
				Default:     f.Tag.Get("default"),
				Required:    in == "path" || f.Tag.Get("required") == "true",
			})
		}
	}
	return params
}

// Describe generates the surface description annotated with the adapter's
// HTTP addressing.
func (a *REST) Describe() *Description {
	d := a.reg.Describe()
	for ri, rd := range d.Resources {
		rs := a.reg.byName[rd.Name]
		for oi := range rd.Operations {
			op := rs.ops[oi]
			method, pattern := a.route(op)
			d.Resources[ri].Operations[oi].Method = method
			d.Resources[ri].Operations[oi].Path = pattern
		}
	}
	return d
}

// ServeDescription registers a GET handler at the given pattern that
// serves the surface description as JSON.
func (a *REST) ServeDescription(pattern string) {
	a.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(a.Describe())
	})
}

// ServeDescriptionYAML registers a GET handler at the given pattern that
// serves the surface description as YAML.
func (a *REST) ServeDescriptionYAML(pattern string) {
	a.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		yaml.NewEncoder(w).Encode(a.Describe())
	})
}

// WriteDescription writes the surface description as indented JSON to w.
func (a *REST) WriteDescription(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Describe())
}

package tools

import (
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

const (
	CalculateToolName = "calculate"
	ExpressionParam   = "expression"
)

// Descriptor is what a client sees when it lists tools.
type Descriptor struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Registry is the fixed set of tools this server offers. It is built once
// and never changes, so it is safe for concurrent use.
type Registry struct {
	tools []Descriptor
}

// NewRegistry returns a registry holding the calculate tool.
func NewRegistry() *Registry {
	return &Registry{
		tools: []Descriptor{CalculateDescriptor()},
	}
}

// ListTools returns a deep copy of the registered descriptors, schemas
// included.
func (r *Registry) ListTools() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, d := range r.tools {
		out[i] = d
		out[i].InputSchema = cloneSchema(d.InputSchema)
	}
	return out
}

// cloneSchema copies s and its sub-schemas. CloneSchemas alone leaves the
// Required slices shared.
func cloneSchema(s *jsonschema.Schema) *jsonschema.Schema {
	c := s.CloneSchemas()
	if c == nil {
		return nil
	}
	c.Required = slices.Clone(c.Required)
	for name, prop := range c.Properties {
		prop.Required = slices.Clone(prop.Required)
		c.Properties[name] = prop
	}
	return c
}

// CalculateDescriptor describes the calculate tool: a single required
// string argument named expression.
func CalculateDescriptor() Descriptor {
	return Descriptor{
		Name:        CalculateToolName,
		Description: "Performs simple arithmetic. Examples: 2+3, 10*5, 100/4",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				ExpressionParam: {
					Type:        "string",
					Description: "Arithmetic expression to evaluate (e.g. '2+3', '10*5')",
				},
			},
			Required: []string{ExpressionParam},
		},
	}
}

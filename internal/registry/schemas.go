package registry

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/tool"
)

// ToolSchema is the editor-facing description of one tool: its metadata plus
// OpenAPI schemas for the declared input and output shapes.
type ToolSchema struct {
	tool.Summary
	Input  *openapi3.Schema `json:"input"`
	Output *openapi3.Schema `json:"output"`
}

// ListWithSchemas returns every registered tool with its shapes rendered as
// OpenAPI object schemas, sorted by id.
func (r *Registry) ListWithSchemas() []ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ToolSchema, 0, len(r.tools))
	for _, def := range r.tools {
		out = append(out, ToolSchema{
			Summary: def.Summary(),
			Input:   shapeSchema(def.Inputs),
			Output:  shapeSchema(def.Outputs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// shapeSchema renders a shape as an object schema: one property per field,
// required fields collected into the required list.
func shapeSchema(s tool.Shape) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, field := range s {
		prop := typeSchema(field.Type)
		prop.Description = field.Description
		schema.Properties[field.Key] = prop.NewRef()
		if field.Required {
			schema.Required = append(schema.Required, field.Key)
		}
	}
	return schema
}

// typeSchema maps a cty type onto its OpenAPI counterpart. DynamicPseudoType
// (and anything else without a firmer mapping) becomes an unconstrained
// schema.
func typeSchema(t cty.Type) *openapi3.Schema {
	switch {
	case t == cty.NilType || t == cty.DynamicPseudoType:
		return openapi3.NewSchema()
	case t == cty.String:
		return openapi3.NewStringSchema()
	case t == cty.Number:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}
	case t == cty.Bool:
		return openapi3.NewBoolSchema()
	case t.IsMapType():
		schema := openapi3.NewObjectSchema()
		schema.AdditionalProperties = openapi3.AdditionalProperties{
			Schema: typeSchema(t.ElementType()).NewRef(),
		}
		return schema
	case t.IsObjectType():
		schema := openapi3.NewObjectSchema()
		for name, attr := range t.AttributeTypes() {
			schema.Properties[name] = typeSchema(attr).NewRef()
		}
		return schema
	case t.IsListType(), t.IsSetType():
		schema := openapi3.NewArraySchema()
		schema.Items = typeSchema(t.ElementType()).NewRef()
		return schema
	case t.IsTupleType():
		return openapi3.NewArraySchema()
	default:
		return openapi3.NewSchema()
	}
}

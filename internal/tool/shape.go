package tool

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Data type names used on ports and edges. These are the wire vocabulary for
// declared types; TypeUnknown marks a type that could not be determined (for
// example the output of a tool that is not registered).
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeAny     = "any"
	TypeUnknown = "unknown"
)

// Field declares one typed key of a tool's input or output.
type Field struct {
	Key         string
	Type        cty.Type
	Required    bool
	Description string
}

// Shape is the ordered set of fields a tool declares on one side of its
// contract. Order is preserved into port listings and schema exports.
type Shape []Field

// Field returns the declared field for key.
func (s Shape) Field(key string) (Field, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the declared keys in declaration order.
func (s Shape) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Validate checks a resolved input map against the shape and returns one
// human-readable problem per violating key. A nil or empty result means the
// input conforms. Keys not declared by the shape pass through unchecked:
// tools receive them verbatim and may ignore them.
func (s Shape) Validate(input map[string]any) []string {
	var problems []string
	for _, f := range s {
		v, present := input[f.Key]
		if !present || v == nil {
			if f.Required {
				problems = append(problems, fmt.Sprintf("%s: required value is missing", f.Key))
			}
			continue
		}
		if err := f.check(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", f.Key, err))
		}
	}
	return problems
}

// check verifies that v is convertible to the field's declared cty type.
func (f Field) check(v any) error {
	if f.Type == cty.NilType || f.Type.Equals(cty.DynamicPseudoType) {
		return nil
	}
	val, err := CtyValue(v)
	if err != nil {
		return err
	}
	if _, err := convert.Convert(val, f.Type); err != nil {
		return fmt.Errorf("%s required: %w", TypeName(f.Type), err)
	}
	return nil
}

// TypeName maps a declared cty type onto the wire vocabulary above.
func TypeName(ty cty.Type) string {
	switch {
	case ty == cty.NilType:
		return TypeUnknown
	case ty.Equals(cty.String):
		return TypeString
	case ty.Equals(cty.Number):
		return TypeNumber
	case ty.Equals(cty.Bool):
		return TypeBoolean
	case ty.Equals(cty.DynamicPseudoType):
		return TypeAny
	case ty.IsObjectType() || ty.IsMapType():
		return TypeObject
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		return TypeArray
	default:
		return TypeUnknown
	}
}

package expr

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bytedance/sonic"
)

var (
	// fullPattern matches strings that are a single expression and nothing
	// else. Resolution through this path preserves the referenced value's
	// native type.
	fullPattern = regexp.MustCompile(`^\$\{\{\s*(.+?)\s*\}\}$`)
	// inlinePattern matches each embedded fragment of an interpolated
	// string. Resolution through this path coerces every fragment to text.
	inlinePattern = regexp.MustCompile(`\$\{\{\s*(.+?)\s*\}\}`)
)

// Context is the read-only state expressions resolve against: outputs of the
// steps completed so far (index = step index) and the variable table.
type Context struct {
	Outputs   []any
	Variables map[string]any
}

// Lookup resolves a parsed reference against the context. The boolean is
// false when the reference points at nothing: a step index outside the
// recorded range, a variable never set, or a path segment that walks into
// null or missing data.
func (c *Context) Lookup(ref Ref) (any, bool) {
	switch ref.Kind {
	case RefVariable:
		v, ok := c.Variables[ref.Name]
		return v, ok
	case RefStepOutput:
		if ref.Step < 0 || ref.Step >= len(c.Outputs) {
			return nil, false
		}
		return Traverse(c.Outputs[ref.Step], ref.Path)
	default:
		return nil, false
	}
}

// Traverse walks a dot path into a value: maps by key, slices by numeric
// segment. Walking into null or missing data yields absent; a path that ends
// on a null value yields that null (type-preserving resolution keeps it).
func Traverse(v any, path []string) (any, bool) {
	for _, seg := range path {
		if v == nil {
			return nil, false
		}
		switch t := v.(type) {
		case map[string]any:
			next, ok := t[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			v = t[idx]
		default:
			return nil, false
		}
	}
	return v, true
}

// Resolve evaluates every string leaf of v against the context, preserving
// container structure. The boolean is false only when v itself is a full
// expression that resolved to absent; inside containers, absent map values
// are omitted and absent slice elements become null, so containers always
// resolve successfully.
func Resolve(v any, rctx *Context) (any, bool) {
	switch t := v.(type) {
	case string:
		return resolveString(t, rctx)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			rv, ok := Resolve(mv, rctx)
			if !ok {
				continue
			}
			out[k] = rv
		}
		return out, true
	case []any:
		out := make([]any, len(t))
		for i, ev := range t {
			rv, ok := Resolve(ev, rctx)
			if !ok {
				continue
			}
			out[i] = rv
		}
		return out, true
	default:
		return v, true
	}
}

// ResolveInput resolves a whole step input map. A nil input resolves to an
// empty map so downstream validation sees a uniform shape.
func ResolveInput(input map[string]any, rctx *Context) map[string]any {
	if input == nil {
		return map[string]any{}
	}
	out, _ := Resolve(input, rctx)
	return out.(map[string]any)
}

// resolveString dispatches between the two expression paths. A string that
// both begins with ${{ and ends with }} is treated as one full expression:
// if its body is not a recognized reference the whole value is absent, it
// does not fall back to interpolation.
func resolveString(s string, rctx *Context) (any, bool) {
	if m := fullPattern.FindStringSubmatch(s); m != nil {
		ref, ok := ParseReference(m[1])
		if !ok {
			return nil, false
		}
		return rctx.Lookup(ref)
	}
	if !inlinePattern.MatchString(s) {
		return s, true
	}
	return inlinePattern.ReplaceAllStringFunc(s, func(frag string) string {
		m := inlinePattern.FindStringSubmatch(frag)
		ref, ok := ParseReference(m[1])
		if !ok {
			return ""
		}
		v, ok := rctx.Lookup(ref)
		if !ok {
			return ""
		}
		return coerceString(v)
	}), true
}

// coerceString renders a resolved fragment for interpolation. Scalars use
// their minimal text form; objects and arrays render as compact JSON.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := sonic.ConfigStd.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// IsExpression reports whether s contains expression syntax at all. Callers
// use it to distinguish opaque literals cheaply.
func IsExpression(s string) bool {
	return inlinePattern.MatchString(s)
}

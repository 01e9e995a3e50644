package tool

import "strconv"

// Args is a tool's resolved runtime input. Values arrive JSON-shaped (string,
// float64, bool, map[string]any, []any, nil); the accessors coerce the scalar
// forms the shape validation already accepted.
type Args map[string]any

// String returns the value under key rendered as a string. Numbers use their
// minimal decimal form, booleans render as true/false.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v)
}

// Number returns the value under key as a float64. Numeric strings parse.
func (a Args) Number(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns the value under key as a bool. The strings accepted by
// strconv.ParseBool parse.
func (a Args) Bool(key string) (bool, bool) {
	switch v := a[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	default:
		return false, false
	}
}

// StringSlice returns the value under key as a slice of strings.
func (a Args) StringSlice(key string) ([]string, bool) {
	switch v := a[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := stringify(e)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// StringMap returns the value under key as a map of strings.
func (a Args) StringMap(key string) (map[string]string, bool) {
	switch v := a[key].(type) {
	case map[string]string:
		return v, true
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, e := range v {
			s, ok := stringify(e)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

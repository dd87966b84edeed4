package engine

// Truthy normalizes a boolean-ish property value. Engines may report flags
// as bool, as an integer, or as a one-element tuple of either.
func Truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	case []bool:
		return len(b) > 0 && b[0]
	case []int:
		return len(b) > 0 && b[0] != 0
	case []any:
		return len(b) > 0 && Truthy(b[0])
	}
	return false
}

// Float normalizes a scalar numeric property value.
func Float(v any) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case float32:
		return float64(f)
	case int:
		return float64(f)
	case []float64:
		if len(f) > 0 {
			return f[0]
		}
	}
	return 0
}

// Vec3 normalizes a three-component property value.
func Vec3(v any) [3]float64 {
	switch f := v.(type) {
	case [3]float64:
		return f
	case []float64:
		var out [3]float64
		copy(out[:], f)
		return out
	}
	return [3]float64{}
}

// Floats returns a copy of a list-valued property.
func Floats(v any) []float64 {
	f, ok := v.([]float64)
	if !ok {
		return []float64{}
	}
	out := make([]float64, len(f))
	copy(out, f)
	return out
}

// Text returns the last element of a string tuple, or the string itself.
// Field selections are reported as (association, name) pairs.
func Text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []string:
		if len(s) > 0 {
			return s[len(s)-1]
		}
	}
	return ""
}

package result

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// normalizeProperty reduces a property value to a scalar:
//
//	list                          → first element, normalized (empty list → null)
//	{id|key, value} wrapper map   → value
//	null                          → null
//	anything else                 → its string form
//
// A single-element list of {id, value} maps therefore resolves to the value.
func normalizeProperty(v any) any {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			return nil
		}
		return normalizeProperty(x[0])
	case map[string]any:
		if val, ok := propertyWrapperValue(x); ok {
			return val
		}
		return stringify(x)
	case nil:
		return nil
	default:
		return stringify(x)
	}
}

func propertyWrapperValue(m map[string]any) (any, bool) {
	val, ok := m["value"]
	if !ok {
		return nil, false
	}
	_, hasID := m["id"]
	_, hasKey := m["key"]
	if !hasID && !hasKey {
		return nil, false
	}
	return val, true
}

// firstOf collapses a non-property list value to its first element.
func firstOf(v any) any {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

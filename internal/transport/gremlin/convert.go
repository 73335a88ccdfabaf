package gremlin

import (
	"fmt"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"
)

// convertValue turns deserialized driver values into the plain result dialect: vertices and
// edges become typed maps, maps get string keys, and lists and sets are converted
// element-wise.
func convertValue(v any) any {
	switch x := v.(type) {
	case *gremlingo.Vertex:
		return vertexItem(x)
	case *gremlingo.Edge:
		return edgeItem(x)
	case *gremlingo.VertexProperty:
		return map[string]any{"id": x.Id, "key": x.Key, "value": convertValue(x.Value)}
	case *gremlingo.Property:
		return map[string]any{"key": x.Key, "value": convertValue(x.Value)}
	case *gremlingo.Path:
		out := make([]any, len(x.Objects))
		for i, o := range x.Objects {
			out[i] = convertValue(o)
		}
		return out
	case *gremlingo.SimpleSet:
		return convertList(x.ToSlice())
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[keyString(k)] = convertValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = convertValue(val)
		}
		return out
	case []any:
		return convertList(x)
	default:
		return v
	}
}

func convertList(list []any) []any {
	out := make([]any, len(list))
	for i, item := range list {
		out[i] = convertValue(item)
	}
	return out
}

func vertexItem(v *gremlingo.Vertex) map[string]any {
	return map[string]any{"type": "vertex", "id": v.Id, "label": v.Label}
}

func edgeItem(e *gremlingo.Edge) map[string]any {
	return map[string]any{
		"type":  "edge",
		"id":    e.Id,
		"label": e.Label,
		"inV":   e.InV.Id,
		"outV":  e.OutV.Id,
	}
}

// keyString renders a map key. Tokens such as T.id arrive as non-string keys.
func keyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(k)
	}
}

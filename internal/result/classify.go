// Package result flattens graph query results into table rows and aggregates them into
// node and edge tables.
//
// Result items arrive in one of two dialects. A plain item is a vertex or edge mapping
// (declared by its "type" key, or recognizable by id/label/inV/outV metadata keys). A
// wrapped item maps traversal step labels to plain items. Classify resolves the dialect once
// per item; the flatteners never inspect shape again.
package result

import (
	"slices"

	"gremlinbridge/internal/errs"
)

// Kind is the closed set of recognized item shapes.
type Kind int

const (
	PlainVertex Kind = iota
	PlainEdge
	WrappedVertex
	WrappedEdge
)

func (k Kind) String() string {
	switch k {
	case PlainVertex:
		return "plain vertex"
	case PlainEdge:
		return "plain edge"
	case WrappedVertex:
		return "wrapped vertex"
	case WrappedEdge:
		return "wrapped edge"
	default:
		return "unknown"
	}
}

// IsVertex reports whether k is a vertex variant.
func (k Kind) IsVertex() bool {
	return k == PlainVertex || k == WrappedVertex
}

// Element is one classified vertex or edge. Step is the traversal step label for wrapped
// items and empty for plain ones.
type Element struct {
	Kind Kind
	Step string
	Item map[string]any
}

const (
	typeVertex = "vertex"
	typeEdge   = "edge"
)

var (
	vertexMetaKeys = []string{"id", "T.id", "label", "T.label"}
	edgeMetaKeys   = []string{"inV", "outV"}
)

// Classify resolves one raw result into elements. raw is either a single item or a list
// of items; anything else is a shape error.
func Classify(raw any) ([]Element, error) {
	switch x := raw.(type) {
	case map[string]any:
		return classifyItem(x)
	case []any:
		var out []Element
		for _, item := range x {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errs.Shape(item, "unexpected non-map item")
			}
			els, err := classifyItem(m)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		}
		return out, nil
	case []map[string]any:
		var out []Element
		for _, m := range x {
			els, err := classifyItem(m)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		}
		return out, nil
	default:
		return nil, errs.Shape(raw, "unexpected result")
	}
}

func classifyItem(item map[string]any) ([]Element, error) {
	if !holdsTypedItem(item) {
		if kind, ok, err := plainKind(item); err != nil {
			return nil, err
		} else if ok {
			return []Element{{Kind: kind, Item: item}}, nil
		}
	}

	steps := make([]string, 0, len(item))
	for step := range item {
		steps = append(steps, step)
	}
	slices.Sort(steps)

	out := make([]Element, 0, len(steps))
	for _, step := range steps {
		inner, ok := item[step].(map[string]any)
		if !ok {
			return nil, errs.Shape(item[step], "unexpected value under step %q", step)
		}
		kind, ok, err := plainKind(inner)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.Shape(inner, "step %q holds neither a vertex nor an edge", step)
		}
		wrapped := WrappedVertex
		if kind == PlainEdge {
			wrapped = WrappedEdge
		}
		out = append(out, Element{Kind: wrapped, Step: step, Item: inner})
	}
	return out, nil
}

// plainKind reports the plain kind of item, false when item carries no vertex/edge markers.
func plainKind(item map[string]any) (Kind, bool, error) {
	if t, ok := item["type"]; ok {
		switch t {
		case typeVertex:
			return PlainVertex, true, nil
		case typeEdge:
			return PlainEdge, true, nil
		default:
			return 0, false, errs.Shape(item, "unexpected item type %v", t)
		}
	}
	if hasAny(item, edgeMetaKeys) {
		return PlainEdge, true, nil
	}
	if hasAny(item, vertexMetaKeys) {
		return PlainVertex, true, nil
	}
	return 0, false, nil
}

// holdsTypedItem reports whether item is untyped and one of its values is a typed vertex or
// edge. Such an item is wrapped even when a step label collides with a metadata key.
func holdsTypedItem(item map[string]any) bool {
	if _, ok := item["type"]; ok {
		return false
	}
	for _, v := range item {
		if m, ok := v.(map[string]any); ok {
			if _, typed := m["type"]; typed {
				return true
			}
		}
	}
	return false
}

func hasAny(item map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := item[k]; ok {
			return true
		}
	}
	return false
}

package result

import (
	"slices"

	"gremlinbridge/internal/table"
)

const (
	keyType       = "type"
	keyProperties = "properties"
)

// FlattenVertex converts a vertex item into a flat row.
//
//   - "type" is dropped
//   - "id" / "T.id" are stored under idCol, "label" / "T.label" under labelCol
//   - other list values collapse to their first element
//   - the "properties" map is expanded with normalizeProperty, skipping a property named idCol
//
// Metadata always wins a name collision with a property. Columns come out as idCol, labelCol,
// the remaining keys sorted, then the properties sorted.
func FlattenVertex(item map[string]any, idCol, labelCol string) table.Record {
	var r table.Record
	setFirst(&r, item, idCol, "id", "T.id")
	setFirst(&r, item, labelCol, "label", "T.label")
	flattenRest(&r, item, map[string]bool{"id": true, "T.id": true, "label": true, "T.label": true})
	expandProperties(&r, item, idCol)
	return r
}

// FlattenEdge converts an edge item into a flat row: "inV" is stored under srcCol and "outV"
// under dstCol; everything else follows the FlattenVertex rules, with properties named srcCol
// or dstCol skipped.
func FlattenEdge(item map[string]any, srcCol, dstCol string) table.Record {
	var r table.Record
	setFirst(&r, item, srcCol, "inV")
	setFirst(&r, item, dstCol, "outV")
	flattenRest(&r, item, map[string]bool{"inV": true, "outV": true})
	expandProperties(&r, item, srcCol, dstCol)
	return r
}

// setFirst stores the value of the first present key under col.
func setFirst(r *table.Record, item map[string]any, col string, keys ...string) {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			r.Set(col, v)
			return
		}
	}
}

func flattenRest(r *table.Record, item map[string]any, meta map[string]bool) {
	keys := make([]string, 0, len(item))
	for k := range item {
		if k == keyType || meta[k] {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := item[k]
		if k == keyProperties {
			if _, isMap := v.(map[string]any); isMap {
				continue
			}
		}
		r.SetDefault(k, firstOf(v))
	}
}

func expandProperties(r *table.Record, item map[string]any, skip ...string) {
	props, ok := item[keyProperties].(map[string]any)
	if !ok {
		return
	}
	names := make([]string, 0, len(props))
	for name := range props {
		if slices.Contains(skip, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		r.SetDefault(name, normalizeProperty(props[name]))
	}
}

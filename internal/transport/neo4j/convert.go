package neo4j

import "github.com/neo4j/neo4j-go-driver/v5/neo4j"

// convertRecords maps each record to one result item. A single-column record yields its
// value; a wider record yields a wrapped item keyed by column name.
func convertRecords(records []*neo4j.Record) []any {
	out := make([]any, 0, len(records))
	for _, rec := range records {
		if len(rec.Values) == 1 {
			out = append(out, convertValue(rec.Values[0]))
			continue
		}
		row := make(map[string]any, len(rec.Keys))
		for i, key := range rec.Keys {
			row[key] = convertValue(rec.Values[i])
		}
		out = append(out, row)
	}
	return out
}

// convertValue converts driver graph types to plain vertex and edge items. The start node of
// a relationship is stored as inV and the end node as outV, so they land in the source and
// destination columns.
func convertValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		item := map[string]any{
			"type":       "vertex",
			"id":         v.ElementId,
			"properties": convertProps(v.Props),
		}
		if len(v.Labels) > 0 {
			item["label"] = v.Labels[0]
		}
		return item
	case neo4j.Relationship:
		return map[string]any{
			"type":       "edge",
			"id":         v.ElementId,
			"label":      v.Type,
			"inV":        v.StartElementId,
			"outV":       v.EndElementId,
			"properties": convertProps(v.Props),
		}
	case neo4j.Path:
		out := make([]any, 0, len(v.Nodes)+len(v.Relationships))
		for _, n := range v.Nodes {
			out = append(out, convertValue(n))
		}
		for _, r := range v.Relationships {
			out = append(out, convertValue(r))
		}
		return out
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = convertValue(item)
		}
		return result
	case map[string]any:
		return convertProps(v)
	default:
		return v
	}
}

func convertProps(props map[string]any) map[string]any {
	result := make(map[string]any, len(props))
	for k, v := range props {
		result[k] = convertValue(v)
	}
	return result
}

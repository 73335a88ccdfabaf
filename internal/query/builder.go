package query

import (
	"fmt"
	"strings"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/table"
)

var (
	vertexTypeColumns = []string{"category", "type"}
	edgeTypeColumns   = []string{"edgeType", "category", "type"}
)

// resolveTypeColumn picks explicit when set, else the first conventional column present.
func resolveTypeColumn(row table.Record, explicit string, conventional []string, kind string) (string, error) {
	if explicit != "" {
		if !row.Has(explicit) {
			return "", errs.Config(explicit, "%s type column not found in row", kind)
		}
		return explicit, nil
	}
	for _, c := range conventional {
		if row.Has(c) {
			return c, nil
		}
	}
	return "", errs.Config("type_col", "must specify %s type column or provide one of %s",
		kind, strings.Join(conventional, ", "))
}

func typeValue(row table.Record, col string) (string, error) {
	v, _ := row.Get(col)
	if table.IsNull(v) {
		return "", errs.Config(col, "type column is null")
	}
	return Escape(v), nil
}

func writeProperty(b *strings.Builder, key string, v any) {
	fmt.Fprintf(b, ".property('%s', '%s')", Escape(key), Escape(v))
}

// VertexQuery builds an addV query for one node row. The type column is typeCol when set,
// otherwise "category", otherwise "type". Every non-null column other than one literally
// named "type" becomes a property clause, in row order.
func VertexQuery(row table.Record, typeCol string) (string, error) {
	col, err := resolveTypeColumn(row, typeCol, vertexTypeColumns, "node")
	if err != nil {
		return "", err
	}
	label, err := typeValue(row, col)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "g.addV('%s')", label)
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		if k == "type" || table.IsNull(v) {
			continue
		}
		writeProperty(&b, k, v)
	}
	return b.String(), nil
}

// EdgeQuery builds an addE query linking the vertices named by fromCol and toCol. The type
// column is typeCol when set, otherwise "edgeType", "category" or "type". Columns other than
// from, to and type become property clauses when not null.
func EdgeQuery(row table.Record, fromCol, toCol, typeCol string) (string, error) {
	col, err := resolveTypeColumn(row, typeCol, edgeTypeColumns, "edge")
	if err != nil {
		return "", err
	}
	label, err := typeValue(row, col)
	if err != nil {
		return "", err
	}
	from, ok := row.Get(fromCol)
	if !ok {
		return "", errs.Config(fromCol, "edge source column not found in row")
	}
	to, ok := row.Get(toCol)
	if !ok {
		return "", errs.Config(toCol, "edge destination column not found in row")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "g.V('%s').addE('%s').to(g.V('%s'))", Escape(from), label, Escape(to))
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		if k == fromCol || k == toCol || k == col || table.IsNull(v) {
			continue
		}
		writeProperty(&b, k, v)
	}
	return b.String(), nil
}

package query

import (
	"fmt"
	"strings"
)

// DropAllVertices removes every vertex (and with them every edge) from a Gremlin store.
const DropAllVertices = "g.V().drop()"

// Dialect renders the fixed non-mutation queries for one query language.
type Dialect interface {
	// LookupByIDs returns a query fetching the vertices with the given ids.
	LookupByIDs(ids []any) string
	// DropAll returns a query removing the whole graph.
	DropAll() string
}

// Gremlin is the TinkerPop traversal dialect.
type Gremlin struct{}

func (Gremlin) LookupByIDs(ids []any) string {
	return "g.V(" + quotedList(ids) + ")"
}

func (Gremlin) DropAll() string { return DropAllVertices }

// Cypher is the dialect used against Neo4j, where ids are element ids.
type Cypher struct{}

func (Cypher) LookupByIDs(ids []any) string {
	return "MATCH (n) WHERE elementId(n) IN [" + quotedList(ids) + "] RETURN n"
}

func (Cypher) DropAll() string { return "MATCH (n) DETACH DELETE n" }

func quotedList(ids []any) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf(`"%s"`, Escape(id))
	}
	return strings.Join(parts, ", ")
}

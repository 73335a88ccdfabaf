package neo4j

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/result"
)

func TestConvertNode(t *testing.T) {
	got := convertValue(neo4j.Node{
		ElementId: "4:db:1",
		Labels:    []string{"Person", "Employee"},
		Props:     map[string]any{"name": "Alice"},
	})
	assert.Equal(t, map[string]any{
		"type":       "vertex",
		"id":         "4:db:1",
		"label":      "Person",
		"properties": map[string]any{"name": "Alice"},
	}, got)
}

func TestConvertRelationship(t *testing.T) {
	got := convertValue(neo4j.Relationship{
		ElementId:      "5:db:9",
		StartElementId: "4:db:1",
		EndElementId:   "4:db:2",
		Type:           "KNOWS",
		Props:          map[string]any{"since": int64(2020)},
	})
	assert.Equal(t, map[string]any{
		"type":       "edge",
		"id":         "5:db:9",
		"label":      "KNOWS",
		"inV":        "4:db:1",
		"outV":       "4:db:2",
		"properties": map[string]any{"since": int64(2020)},
	}, got)
}

func TestConvertRecordsAggregate(t *testing.T) {
	a := neo4j.Node{ElementId: "a", Labels: []string{"Person"}, Props: map[string]any{}}
	b := neo4j.Node{ElementId: "b", Props: map[string]any{"age": int64(3)}}
	rel := neo4j.Relationship{ElementId: "r", StartElementId: "a", EndElementId: "b", Type: "KNOWS"}

	batch := convertRecords([]*neo4j.Record{
		{Keys: []string{"n"}, Values: []any{a}},
		{Keys: []string{"a", "r", "b"}, Values: []any{a, rel, b}},
		{Keys: []string{"p"}, Values: []any{neo4j.Path{Nodes: []neo4j.Node{a, b}, Relationships: []neo4j.Relationship{rel}}}},
	})
	require.Len(t, batch, 3)

	g, err := result.Aggregate(func(yield func([]any) bool) { yield(batch) }, graph.Graph{})
	require.NoError(t, err)
	assert.Equal(t, 5, g.Nodes().Len())
	assert.Equal(t, 2, g.Edges().Len())

	src, _ := g.Edges().Column("src")
	dst, _ := g.Edges().Column("dst")
	assert.Equal(t, []any{"a", "a"}, src)
	assert.Equal(t, []any{"b", "b"}, dst)
}

func TestConvertRecordsEmpty(t *testing.T) {
	batch := convertRecords(nil)
	assert.NotNil(t, batch)
	assert.Empty(t, batch)
}

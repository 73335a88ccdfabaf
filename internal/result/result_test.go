package result

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
)

func TestFlattenVertexNeptuneKeys(t *testing.T) {
	r := FlattenVertex(map[string]any{
		"T.id":       "v1",
		"T.label":    "person",
		"properties": map[string]any{"name": "Alice"},
	}, "id", "label")

	assert.Equal(t, map[string]any{"id": "v1", "label": "person", "name": "Alice"}, r.Map())
	assert.Equal(t, []string{"id", "label", "name"}, r.Keys())
}

func TestFlattenVertexPlain(t *testing.T) {
	r := FlattenVertex(map[string]any{
		"type":  "vertex",
		"id":    "v1",
		"label": "person",
		"extra": []any{"first", "second"},
		"properties": map[string]any{
			"name":  []any{map[string]any{"id": "p1", "value": "Bob"}},
			"tags":  []any{map[string]any{"id": "p2", "value": "a"}, map[string]any{"id": "p3", "value": "b"}},
			"age":   30,
			"id":    "shadowed",
			"label": "shadowed",
		},
	}, "id", "label")

	assert.Equal(t, map[string]any{
		"id":    "v1",
		"label": "person",
		"extra": "first",
		"name":  "Bob",
		"tags":  "a",
		"age":   "30",
	}, r.Map())
	assert.False(t, r.Has("type"))
}

func TestFlattenVertexCustomColumns(t *testing.T) {
	r := FlattenVertex(map[string]any{
		"type":       "vertex",
		"id":         "v1",
		"label":      "person",
		"properties": map[string]any{"node": "dropped", "kind": "shadowed"},
	}, "node", "kind")

	assert.Equal(t, map[string]any{"node": "v1", "kind": "person"}, r.Map())
}

func TestFlattenEdgeDefaults(t *testing.T) {
	r := FlattenEdge(map[string]any{
		"type":       "edge",
		"inV":        "v1",
		"outV":       "v2",
		"properties": map[string]any{"weight": []any{map[string]any{"id": "x", "value": 5}}},
	}, "src", "dst")

	assert.Equal(t, map[string]any{"src": "v1", "dst": "v2", "weight": 5}, r.Map())
}

func TestFlattenEdgeSkipsBindingNamedProperties(t *testing.T) {
	r := FlattenEdge(map[string]any{
		"type":  "edge",
		"id":    "e1",
		"label": "knows",
		"inV":   "v1",
		"outV":  "v2",
		"properties": map[string]any{
			"src":   "nope",
			"dst":   "nope",
			"since": map[string]any{"key": "since", "value": 2020},
		},
	}, "src", "dst")

	assert.Equal(t, map[string]any{"src": "v1", "dst": "v2", "id": "e1", "label": "knows", "since": 2020}, r.Map())
	assert.Equal(t, []string{"src", "dst", "id", "label", "since"}, r.Keys())
}

func TestNormalizeProperty(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"single wrapped value", []any{map[string]any{"id": "1", "value": 3.5}}, 3.5},
		{"multi valued list", []any{"x", "y"}, "x"},
		{"empty list", []any{}, nil},
		{"nested list", []any{[]any{true}}, "true"},
		{"scalar string", "s", "s"},
		{"scalar number", 7, "7"},
		{"null", nil, nil},
		{"plain map", map[string]any{"a": 1}, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeProperty(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	vertex := map[string]any{"type": "vertex", "id": "v1"}
	edge := map[string]any{"type": "edge", "inV": "v1", "outV": "v2"}

	els, err := Classify(vertex)
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, PlainVertex, els[0].Kind)

	els, err = Classify([]any{vertex, edge})
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, PlainEdge, els[1].Kind)

	els, err = Classify(map[string]any{"b": edge, "a": vertex})
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, Element{Kind: WrappedVertex, Step: "a", Item: vertex}, els[0])
	assert.Equal(t, Element{Kind: WrappedEdge, Step: "b", Item: edge}, els[1])

	els, err = Classify(map[string]any{"T.id": "v1", "T.label": "person"})
	require.NoError(t, err)
	assert.Equal(t, PlainVertex, els[0].Kind)
}

func TestClassifyStepNamedLikeMetadata(t *testing.T) {
	v1 := map[string]any{"type": "vertex", "id": "v1"}
	v2 := map[string]any{"type": "vertex", "id": "v2"}
	e := map[string]any{"type": "edge", "inV": "v1", "outV": "v2"}

	els, err := Classify(map[string]any{"id": v1, "other": v2, "outV": e})
	require.NoError(t, err)
	require.Len(t, els, 3)
	assert.Equal(t, Element{Kind: WrappedVertex, Step: "id", Item: v1}, els[0])
	assert.Equal(t, Element{Kind: WrappedVertex, Step: "other", Item: v2}, els[1])
	assert.Equal(t, Element{Kind: WrappedEdge, Step: "outV", Item: e}, els[2])

	g, err := Aggregate(slices.Values([][]any{{map[string]any{"id": v1, "other": v2}}}), graph.Graph{})
	require.NoError(t, err)
	ids, _ := g.Nodes().Column("id")
	assert.Equal(t, []any{"v1", "v2"}, ids)
}

func TestClassifyShapeErrors(t *testing.T) {
	cases := map[string]any{
		"scalar":          "oops",
		"non-map in list": []any{1},
		"bad type":        map[string]any{"type": "hyperedge"},
		"bad step value":  map[string]any{"a": 1},
		"bad step type":   map[string]any{"a": map[string]any{"type": "path"}},
		"unmarked step":   map[string]any{"a": map[string]any{"name": "x"}},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(raw)
			assert.ErrorIs(t, err, errs.ErrShape)
		})
	}
}

func vertex(id string) map[string]any {
	return map[string]any{"type": "vertex", "id": id, "label": "person", "properties": map[string]any{"name": id + "-name"}}
}

func TestAggregateNodesAndEdges(t *testing.T) {
	batches := [][]any{
		{vertex("v1"), vertex("v2")},
		{map[string]any{"type": "edge", "inV": "v1", "outV": "v2"}},
	}

	g, err := Aggregate(slices.Values(batches), graph.Graph{})
	require.NoError(t, err)

	require.NotNil(t, g.Nodes())
	assert.Equal(t, 2, g.Nodes().Len())
	assert.Equal(t, []string{"id", "label", "name"}, g.Nodes().Columns())
	require.NotNil(t, g.Edges())
	assert.Equal(t, 1, g.Edges().Len())
	assert.Equal(t, graph.DefaultBindings(), g.Bindings())
}

func TestAggregateVertexOnlyKeepsEdgeShape(t *testing.T) {
	g, err := Aggregate(slices.Values([][]any{{vertex("v1")}}), graph.Graph{})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Nodes().Len())
	require.NotNil(t, g.Edges())
	assert.Equal(t, 0, g.Edges().Len())
	assert.Equal(t, []string{"src", "dst"}, g.Edges().Columns())
}

func TestAggregateEdgeOnlyHasNoNodes(t *testing.T) {
	g, err := Aggregate(slices.Values([][]any{{[]any{map[string]any{"type": "edge", "inV": "a", "outV": "b"}}}}), graph.Graph{})
	require.NoError(t, err)

	assert.Nil(t, g.Nodes())
	assert.Equal(t, 1, g.Edges().Len())
}

func TestAggregateRespectsCallerBindings(t *testing.T) {
	base := graph.New(nil, nil, graph.Bindings{Node: "vid", Source: "from"})
	batches := [][]any{{
		map[string]any{"step1": vertex("v1"), "step2": map[string]any{"type": "edge", "inV": "v1", "outV": "v1"}},
	}}

	g, err := Aggregate(slices.Values(batches), base)
	require.NoError(t, err)

	assert.Equal(t, graph.Bindings{Node: "vid", Source: "from", Destination: "dst"}, g.Bindings())
	assert.True(t, g.Nodes().HasColumn("vid"))
	assert.Equal(t, []string{"from", "dst"}, g.Edges().Columns())
}

func TestAggregateAbortsOnShapeError(t *testing.T) {
	_, err := Aggregate(slices.Values([][]any{{vertex("v1"), 42}}), graph.Graph{})
	assert.ErrorIs(t, err, errs.ErrShape)
}

package client

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/query"
	"gremlinbridge/internal/table"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Submit(ctx context.Context, q string) ([]any, error) {
	args := m.Called(ctx, q)
	batch, _ := args.Get(0).([]any)
	return batch, args.Error(1)
}

func (m *mockTransport) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// lookupTransport answers id lookups with one vertex per quoted id, in query order.
type lookupTransport struct {
	queries []string
}

var quotedID = regexp.MustCompile(`"([^"]*)"`)

func (l *lookupTransport) Submit(_ context.Context, q string) ([]any, error) {
	l.queries = append(l.queries, q)
	batch := []any{}
	for _, m := range quotedID.FindAllStringSubmatch(q, -1) {
		batch = append(batch, map[string]any{
			"type":       "vertex",
			"id":         m[1],
			"label":      "person",
			"properties": map[string]any{"name": []any{map[string]any{"id": "p", "value": strings.ToUpper(m[1])}}},
		})
	}
	return batch, nil
}

func (l *lookupTransport) Close(context.Context) error { return nil }

func vertexItem(id string) map[string]any {
	return map[string]any{"type": "vertex", "id": id, "label": "person"}
}

func TestRunnerLenientContinues(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	tr := &mockTransport{}
	tr.On("Submit", ctx, "q1").Return([]any{vertexItem("v1")}, nil)
	tr.On("Submit", ctx, "q2").Return(nil, boom)
	tr.On("Submit", ctx, "q3").Return(nil, nil)

	core, logs := observer.New(zapcore.DebugLevel)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	r := NewRunner(tr, WithLogger(zap.New(core).Sugar()), WithMetrics(m))

	var results []Result
	for res := range r.Run(ctx, func(yield func(string) bool) {
		for _, q := range []string{"q1", "q2", "q3"} {
			if !yield(q) {
				return
			}
		}
	}) {
		results = append(results, res)
	}

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Batch, 1)

	assert.ErrorIs(t, results[1].Err, boom)
	assert.ErrorIs(t, results[1].Err, errs.ErrQueryExecution)
	var qErr *errs.QueryError
	require.ErrorAs(t, results[1].Err, &qErr)
	assert.Equal(t, "q2", qErr.Query)

	assert.ErrorIs(t, results[2].Err, errs.ErrNoResult)

	assert.Equal(t, 2, logs.FilterMessage("query failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("resuming after failed query").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues(statusOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues(statusError)))
	tr.AssertExpectations(t)
}

func TestRunnerIsLazy(t *testing.T) {
	ctx := context.Background()
	tr := &mockTransport{}
	tr.On("Submit", ctx, "q1").Return([]any{}, nil)

	seq := NewRunner(tr).Run(ctx, func(yield func(string) bool) {
		for _, q := range []string{"q1", "q2"} {
			if !yield(q) {
				return
			}
		}
	})
	tr.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)

	for range seq {
		break
	}
	tr.AssertNumberOfCalls(t, "Submit", 1)
	tr.AssertNotCalled(t, "Submit", ctx, "q2")
}

func TestCollectStrictStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	tr := &mockTransport{}
	tr.On("Submit", ctx, "q1").Return([]any{"a"}, nil)
	tr.On("Submit", ctx, "q2").Return(nil, boom)

	queries := func(yield func(string) bool) {
		for _, q := range []string{"q1", "q2", "q3"} {
			if !yield(q) {
				return
			}
		}
	}

	batches, err := Collect(NewRunner(tr).Run(ctx, queries), true)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, [][]any{{"a"}}, batches)
	tr.AssertNotCalled(t, "Submit", ctx, "q3")
}

func TestCollectLenientDropsFailures(t *testing.T) {
	results := func(yield func(Result) bool) {
		_ = yield(Result{Query: "a", Batch: []any{1}}) &&
			yield(Result{Query: "b", Err: errors.New("x")}) &&
			yield(Result{Query: "c", Batch: []any{2}})
	}
	batches, err := Collect(results, false)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1}, {2}}, batches)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &mockTransport{}

	var results []Result
	for res := range NewRunner(tr).Run(ctx, func(yield func(string) bool) { _ = yield("q1") && yield("q2") }) {
		results = append(results, res)
	}
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	tr.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestBridgeQueryAggregates(t *testing.T) {
	ctx := context.Background()
	tr := &mockTransport{}
	tr.On("Submit", ctx, "g.V()").Return([]any{vertexItem("v1"), vertexItem("v2")}, nil)
	tr.On("Submit", ctx, "g.E()").Return([]any{[]any{map[string]any{"type": "edge", "inV": "v1", "outV": "v2"}}}, nil)

	g, err := NewBridge(tr, query.Gremlin{}).Query(ctx, graph.Graph{}, "g.V()", "g.E()")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Nodes().Len())
	assert.Equal(t, 1, g.Edges().Len())
	assert.Equal(t, graph.DefaultBindings(), g.Bindings())
}

func TestBridgeQueryIsStrict(t *testing.T) {
	ctx := context.Background()
	tr := &mockTransport{}
	tr.On("Submit", ctx, "bad").Return(nil, errors.New("syntax"))

	_, err := NewBridge(tr, query.Gremlin{}).Query(ctx, graph.Graph{}, "bad", "never")
	assert.ErrorIs(t, err, errs.ErrQueryExecution)
	tr.AssertNotCalled(t, "Submit", ctx, "never")
}

func TestBridgeDropGraph(t *testing.T) {
	ctx := context.Background()
	for _, d := range []query.Dialect{query.Gremlin{}, query.Cypher{}} {
		tr := &mockTransport{}
		tr.On("Submit", ctx, d.DropAll()).Return([]any{}, nil)
		require.NoError(t, NewBridge(tr, d).DropGraph(ctx))
		tr.AssertExpectations(t)
	}
	assert.Equal(t, "g.V().drop()", query.Gremlin{}.DropAll())
}

func uploadGraph(t *testing.T) graph.Graph {
	t.Helper()
	nodes, err := table.New([]string{"node", "type", "name"}, [][]any{
		{"a", "person", "Ann"},
		{"b", "person", nil},
	})
	require.NoError(t, err)
	edges, err := table.New([]string{"src", "dst", "edgeType"}, [][]any{{"a", "b", "knows"}})
	require.NoError(t, err)
	return graph.New(nodes, edges, graph.Bindings{Node: "node", Source: "src", Destination: "dst"})
}

func TestUploadQueries(t *testing.T) {
	var got []string
	for q, err := range UploadQueries(uploadGraph(t), UploadOptions{Nodes: query.NodeQueryOptions{PartitionKey: "pk"}}) {
		require.NoError(t, err)
		got = append(got, q)
	}
	assert.Equal(t, []string{
		"g.addV('person').property('id', 'a').property('name', 'Ann').property('pk', '1')",
		"g.addV('person').property('id', 'b').property('pk', '1')",
		"g.V('a').addE('knows').to(g.V('b'))",
	}, got)
}

func TestUploadQueriesNeedsATable(t *testing.T) {
	for _, err := range UploadQueries(graph.Graph{}, UploadOptions{}) {
		assert.ErrorIs(t, err, errs.ErrConfiguration)
	}
}

func TestBridgeUploadLenientAndStrict(t *testing.T) {
	ctx := context.Background()
	g := uploadGraph(t)
	newTransport := func() *mockTransport {
		tr := &mockTransport{}
		tr.On("Submit", ctx, mock.MatchedBy(func(q string) bool { return strings.Contains(q, "'a'") && strings.HasPrefix(q, "g.addV") })).
			Return(nil, errors.New("conflict"))
		tr.On("Submit", ctx, mock.Anything).Return([]any{}, nil)
		return tr
	}

	results, err := NewBridge(newTransport(), query.Gremlin{}).Upload(ctx, g, UploadOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.NoError(t, results[2].Err)

	tr := newTransport()
	results, err = NewBridge(tr, query.Gremlin{}).Upload(ctx, g, UploadOptions{Strict: true})
	assert.ErrorIs(t, err, errs.ErrQueryExecution)
	assert.Len(t, results, 1)
	tr.AssertNumberOfCalls(t, "Submit", 1)
}

func TestBridgeUploadStopsOnBuildError(t *testing.T) {
	ctx := context.Background()
	nodes, err := table.New([]string{"id"}, [][]any{{"a"}})
	require.NoError(t, err)
	tr := &mockTransport{}

	results, err := NewBridge(tr, query.Gremlin{}).Upload(ctx, graph.New(nodes, nil, graph.Bindings{}), UploadOptions{})
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Empty(t, results)
	tr.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestFetchNodesBatches(t *testing.T) {
	edges, err := table.New([]string{"src", "dst"}, [][]any{
		{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"},
	})
	require.NoError(t, err)
	g := graph.New(nil, edges, graph.Bindings{Source: "src", Destination: "dst"})

	tr := &lookupTransport{}
	out, err := NewBridge(tr, query.Gremlin{}).FetchNodes(context.Background(), g, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`g.V("a", "b")`,
		`g.V("c", "d")`,
		`g.V("e")`,
	}, tr.queries)

	require.NotNil(t, out.Nodes())
	ids, ok := out.Nodes().Column("id")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b", "c", "d", "e"}, ids)
	names, _ := out.Nodes().Column("name")
	assert.Equal(t, []any{"A", "B", "C", "D", "E"}, names)
	assert.Equal(t, "id", out.NodeColumn())
	assert.Same(t, edges, out.Edges())
}

func TestFetchNodesUsesExistingNodeTable(t *testing.T) {
	nodes, err := table.New([]string{"vid"}, [][]any{{"x"}, {"y"}})
	require.NoError(t, err)
	g := graph.New(nodes, nil, graph.Bindings{Node: "vid"})

	tr := &lookupTransport{}
	out, err := NewBridge(tr, query.Gremlin{}).FetchNodes(context.Background(), g, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{`g.V("x", "y")`}, tr.queries)
	assert.Equal(t, []string{"vid", "label", "name"}, out.Nodes().Columns())
	assert.Equal(t, "vid", out.NodeColumn())
}

func TestFetchNodesConfigErrors(t *testing.T) {
	edges, err := table.New([]string{"src", "dst"}, [][]any{{"a", "b"}})
	require.NoError(t, err)
	nodes, err := table.New([]string{"name"}, [][]any{{"a"}})
	require.NoError(t, err)

	tests := []struct {
		name      string
		g         graph.Graph
		batchSize int
	}{
		{"no tables", graph.Graph{}, 10},
		{"no bindings", graph.New(nil, edges, graph.Bindings{}), 10},
		{"missing source column", graph.New(nil, edges, graph.Bindings{Source: "from", Destination: "dst"}), 10},
		{"node column absent", graph.New(nodes, nil, graph.Bindings{Node: "id"}), 10},
		{"negative batch size", graph.New(nil, edges, graph.DefaultBindings()), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &lookupTransport{}
			_, err := NewBridge(tr, query.Gremlin{}).FetchNodes(context.Background(), tt.g, tt.batchSize)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
			assert.Empty(t, tr.queries)
		})
	}
}

func TestBridgeClose(t *testing.T) {
	ctx := context.Background()
	tr := &mockTransport{}
	tr.On("Close", ctx).Return(nil)
	require.NoError(t, NewBridge(tr, query.Gremlin{}).Close(ctx))
	tr.AssertExpectations(t)
}

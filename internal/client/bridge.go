package client

import (
	"context"
	"iter"
	"slices"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/query"
	"gremlinbridge/internal/result"
)

// Bridge runs queries against one database and converts between its results and tabular
// graphs. The dialect supplies the lookup and drop queries for that database.
type Bridge struct {
	transport Transport
	dialect   query.Dialect
	runner    *Runner
}

// NewBridge returns a bridge over t speaking dialect d.
func NewBridge(t Transport, d query.Dialect, opts ...RunnerOption) *Bridge {
	return &Bridge{transport: t, dialect: d, runner: NewRunner(t, opts...)}
}

// Close closes the transport.
func (b *Bridge) Close(ctx context.Context) error {
	return b.transport.Close(ctx)
}

// Query runs queries strictly and aggregates every result into a fresh graph bound the
// way base is, with defaults for unset bindings.
func (b *Bridge) Query(ctx context.Context, base graph.Graph, queries ...string) (graph.Graph, error) {
	return b.QuerySeq(ctx, base, slices.Values(queries))
}

// QuerySeq is Query over a lazy query sequence.
func (b *Bridge) QuerySeq(ctx context.Context, base graph.Graph, queries iter.Seq[string]) (graph.Graph, error) {
	batches, err := Collect(b.runner.Run(ctx, queries), true)
	if err != nil {
		return graph.Graph{}, err
	}
	return result.Aggregate(slices.Values(batches), base)
}

// DropGraph removes every vertex and edge from the database.
func (b *Bridge) DropGraph(ctx context.Context) error {
	_, err := Collect(b.runner.Run(ctx, slices.Values([]string{b.dialect.DropAll()})), true)
	return err
}

// UploadOptions controls Upload.
type UploadOptions struct {
	Nodes          query.NodeQueryOptions
	EdgeTypeColumn string
	// Strict stops the upload at the first failed query.
	Strict bool
}

// UploadQueries lazily yields the vertex queries of g's node table followed by the edge
// queries of its edge table. Missing tables are skipped; a graph without either is a
// configuration error.
func UploadQueries(g graph.Graph, opts UploadOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g.Nodes() == nil && g.Edges() == nil {
			yield("", errs.Config("graph", "has neither a node nor an edge table"))
			return
		}
		if g.Nodes() != nil {
			for q, err := range query.NodeQueries(g, opts.Nodes) {
				if !yield(q, err) || err != nil {
					return
				}
			}
		}
		if g.Edges() != nil {
			for q, err := range query.EdgeQueries(g, opts.EdgeTypeColumn) {
				if !yield(q, err) || err != nil {
					return
				}
			}
		}
	}
}

// Upload writes g's nodes and edges to the database and returns one Result per submitted
// query. Failed queries are reported in place unless opts.Strict is set. A query that
// cannot be built aborts the upload with a configuration error.
func (b *Bridge) Upload(ctx context.Context, g graph.Graph, opts UploadOptions) ([]Result, error) {
	var buildErr error
	queries := func(yield func(string) bool) {
		for q, err := range UploadQueries(g, opts) {
			if err != nil {
				buildErr = err
				return
			}
			if !yield(q) {
				return
			}
		}
	}

	var out []Result
	for res := range b.runner.Run(ctx, queries) {
		out = append(out, res)
		if res.Err != nil && opts.Strict {
			return out, res.Err
		}
	}
	return out, buildErr
}

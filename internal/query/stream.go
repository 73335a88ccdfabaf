package query

import (
	"iter"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

const (
	DefaultPartitionValue = "1"
	DefaultIDColumn       = "id"
)

// NodeQueryOptions controls NodeQueries.
type NodeQueryOptions struct {
	// PartitionKey is added to every row when the node table lacks it. Empty skips it.
	PartitionKey string
	// PartitionValue fills PartitionKey when added (default "1").
	PartitionValue any
	// IDColumn is the name the bound node column is renamed to (default "id").
	IDColumn string
	// TypeColumn is passed to VertexQuery.
	TypeColumn string
}

func (o NodeQueryOptions) withDefaults() NodeQueryOptions {
	if o.PartitionValue == nil {
		o.PartitionValue = DefaultPartitionValue
	}
	if o.IDColumn == "" {
		o.IDColumn = DefaultIDColumn
	}
	return o
}

// NodeQueries lazily yields one vertex query per node row, in table order. The first error
// ends the sequence.
func NodeQueries(g graph.Graph, opts NodeQueryOptions) iter.Seq2[string, error] {
	opts = opts.withDefaults()
	return func(yield func(string, error) bool) {
		nodes := g.Nodes()
		if nodes == nil {
			yield("", errs.Config("nodes", "graph has no node table"))
			return
		}
		if opts.PartitionKey != "" {
			nodes = nodes.WithColumn(opts.PartitionKey, opts.PartitionValue)
		}
		if col := g.NodeColumn(); col != "" {
			nodes = nodes.Rename(map[string]string{col: opts.IDColumn})
		}
		emitRows(nodes, yield, func(r table.Record) (string, error) {
			return VertexQuery(r, opts.TypeColumn)
		})
	}
}

// EdgeQueries lazily yields one edge query per edge row using the graph's source and
// destination bindings, in table order. The first error ends the sequence.
func EdgeQueries(g graph.Graph, typeCol string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		edges := g.Edges()
		if edges == nil {
			yield("", errs.Config("edges", "graph has no edge table"))
			return
		}
		src, dst := g.SourceColumn(), g.DestinationColumn()
		if src == "" || dst == "" {
			yield("", errs.Config("bindings", "source and destination must be bound to stream edges"))
			return
		}
		emitRows(edges, yield, func(r table.Record) (string, error) {
			return EdgeQuery(r, src, dst, typeCol)
		})
	}
}

func emitRows(t *table.Table, yield func(string, error) bool, build func(table.Record) (string, error)) {
	for r := range t.Rows() {
		q, err := build(r)
		if err != nil {
			yield("", err)
			return
		}
		if !yield(q, nil) {
			return
		}
	}
}

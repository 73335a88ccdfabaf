package client

import (
	"context"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

// DefaultBatchSize is the number of node ids per lookup query.
const DefaultBatchSize = 1000

// FetchNodes replaces g's node table with the vertices the database holds for its node ids.
//
// An unbound node column defaults to "id". Without node rows, the node ids are the
// deduplicated union of the edge table's source and destination columns. Ids are looked up
// in consecutive batches of at most batchSize (0 means DefaultBatchSize), one query per
// batch, and the enriched tables are concatenated in batch order.
func (b *Bridge) FetchNodes(ctx context.Context, g graph.Graph, batchSize int) (graph.Graph, error) {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < 0 {
		return graph.Graph{}, errs.Config("batchSize", "must be positive, got %d", batchSize)
	}

	nodeCol := g.NodeColumn()
	if nodeCol == "" {
		nodeCol = graph.DefaultNodeColumn
		g = g.Bind(graph.Bindings{Node: nodeCol})
	}

	nodes := g.Nodes()
	if nodes == nil || nodes.Len() == 0 {
		var err error
		if nodes, err = nodesFromEdges(g, nodeCol); err != nil {
			return graph.Graph{}, err
		}
	}
	ids, ok := nodes.Column(nodeCol)
	if !ok {
		return graph.Graph{}, errs.Config(nodeCol, "node id column not in node table")
	}

	var enriched []*table.Table
	for start := 0; start < len(ids); start += batchSize {
		batch := ids[start:min(start+batchSize, len(ids))]
		res, err := b.Query(ctx, g, b.dialect.LookupByIDs(batch))
		if err != nil {
			return graph.Graph{}, err
		}
		enriched = append(enriched, res.Nodes())
	}

	out := table.Concat(enriched...)
	if out.Len() == 0 && len(out.Columns()) == 0 {
		out = table.Empty(nodeCol)
	}
	return g.WithNodesBound(out, nodeCol), nil
}

func nodesFromEdges(g graph.Graph, nodeCol string) (*table.Table, error) {
	edges := g.Edges()
	if edges == nil {
		return nil, errs.Config("edges", "node enrichment requires a node or edge table")
	}
	src, dst := g.SourceColumn(), g.DestinationColumn()
	if src == "" || dst == "" {
		return nil, errs.Config("bindings", "cannot infer nodes without source and destination bindings")
	}

	srcIDs, err := edges.Select(src)
	if err != nil {
		return nil, errs.Config(src, "source column not in edge table")
	}
	dstIDs, err := edges.Select(dst)
	if err != nil {
		return nil, errs.Config(dst, "destination column not in edge table")
	}
	return table.Concat(
		srcIDs.Rename(map[string]string{src: nodeCol}),
		dstIDs.Rename(map[string]string{dst: nodeCol}),
	).DropDuplicates(), nil
}

package result

import (
	"iter"

	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

// DefaultLabelColumn is the node column that receives vertex labels.
const DefaultLabelColumn = "label"

// Aggregate flattens every item of every batch into fresh node and edge tables.
//
// Each batch holds the results of one query; a result is a single item or a list of items,
// plain or wrapped. The returned graph carries base's bindings with the defaults (id, src,
// dst) filled in where unset. Its node table is nil when no vertex was seen; its edge table
// is always set, with zero rows and the bound source/destination columns when no edge was
// seen. The first shape error aborts the call.
func Aggregate(batches iter.Seq[[]any], base graph.Graph) (graph.Graph, error) {
	b := base.Bindings().Merge(graph.DefaultBindings())

	var nodes, edges []table.Record
	for batch := range batches {
		for _, raw := range batch {
			elements, err := Classify(raw)
			if err != nil {
				return graph.Graph{}, err
			}
			for _, el := range elements {
				if el.Kind.IsVertex() {
					nodes = append(nodes, FlattenVertex(el.Item, b.Node, DefaultLabelColumn))
				} else {
					edges = append(edges, FlattenEdge(el.Item, b.Source, b.Destination))
				}
			}
		}
	}

	g := graph.New(nil, nil, b)
	if len(nodes) > 0 {
		g = g.WithNodes(table.FromRecords(nodes))
	}
	if len(edges) > 0 {
		g = g.WithEdges(table.FromRecords(edges))
	} else {
		g = g.WithEdges(table.Empty(b.Source, b.Destination))
	}
	return g, nil
}

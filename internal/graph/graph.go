package graph

import "gremlinbridge/internal/table"

// Graph is an immutable tabular graph. Nodes and Edges may be nil when unknown.
// Every With/Bind method returns a new Graph and leaves the receiver untouched.
type Graph struct {
	nodes    *table.Table
	edges    *table.Table
	bindings Bindings
}

// New returns a graph over the given tables and bindings.
func New(nodes, edges *table.Table, b Bindings) Graph {
	return Graph{nodes: nodes, edges: edges, bindings: b}
}

func (g Graph) Nodes() *table.Table  { return g.nodes }
func (g Graph) Edges() *table.Table  { return g.edges }
func (g Graph) Bindings() Bindings   { return g.bindings }
func (g Graph) NodeColumn() string   { return g.bindings.Node }
func (g Graph) SourceColumn() string { return g.bindings.Source }
func (g Graph) DestinationColumn() string {
	return g.bindings.Destination
}

// Bind returns a copy with every set field of b applied.
func (g Graph) Bind(b Bindings) Graph {
	g.bindings = g.bindings.Override(b)
	return g
}

// WithNodes returns a copy with the node table replaced.
func (g Graph) WithNodes(nodes *table.Table) Graph {
	g.nodes = nodes
	return g
}

// WithNodesBound replaces the node table and binds its id column in one step.
func (g Graph) WithNodesBound(nodes *table.Table, nodeColumn string) Graph {
	g.nodes = nodes
	g.bindings.Node = nodeColumn
	return g
}

// WithEdges returns a copy with the edge table replaced.
func (g Graph) WithEdges(edges *table.Table) Graph {
	g.edges = edges
	return g
}

// Package graph holds the tabular graph container: a node table, an edge table and the
// column bindings that say which columns carry node ids, edge sources and edge destinations.
package graph

const (
	DefaultNodeColumn        = "id"
	DefaultSourceColumn      = "src"
	DefaultDestinationColumn = "dst"
)

// Bindings names the id/source/destination columns of a graph. An empty field is unset.
type Bindings struct {
	Node        string
	Source      string
	Destination string
}

// DefaultBindings returns the bindings applied to result graphs when the caller has none.
func DefaultBindings() Bindings {
	return Bindings{
		Node:        DefaultNodeColumn,
		Source:      DefaultSourceColumn,
		Destination: DefaultDestinationColumn,
	}
}

// Merge returns b with every unset field taken from defaults. Set fields are never overwritten.
func (b Bindings) Merge(defaults Bindings) Bindings {
	if b.Node == "" {
		b.Node = defaults.Node
	}
	if b.Source == "" {
		b.Source = defaults.Source
	}
	if b.Destination == "" {
		b.Destination = defaults.Destination
	}
	return b
}

// Override returns b with every field that is set in other replaced.
func (b Bindings) Override(other Bindings) Bindings {
	return other.Merge(b)
}

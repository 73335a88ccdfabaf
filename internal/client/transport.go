// Package client runs query streams against a graph database transport and turns the
// results back into tabular graphs.
package client

import "context"

// Transport submits one query at a time to a graph database.
//
// Submit blocks until every result of the query has arrived and returns them in protocol
// order. A nil batch with a nil error is treated as an erroneous result; a query without
// results must return an empty, non-nil batch.
type Transport interface {
	Submit(ctx context.Context, query string) ([]any, error)
	Close(ctx context.Context) error
}

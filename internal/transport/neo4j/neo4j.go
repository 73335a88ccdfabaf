// Package neo4j implements the bridge transport over the Neo4j Bolt driver. Nodes and
// relationships are converted to plain vertex and edge items so the usual aggregation
// applies; pair it with the Cypher dialect.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"gremlinbridge/internal/config"
)

const connectTimeout = 5 * time.Second

// Transport runs Cypher statements, one write transaction per statement.
type Transport struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New opens a driver for cfg and verifies the connection.
func New(ctx context.Context, cfg config.Neo4j) (*Transport, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Transport{driver: driver, dbName: cfg.Database}, nil
}

func (t *Transport) Close(ctx context.Context) error {
	return t.driver.Close(ctx)
}

// Submit runs query and returns one converted item per record.
func (t *Transport) Submit(ctx context.Context, query string) ([]any, error) {
	session := t.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: t.dbName})
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return convertRecords(records), nil
	})
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}
	return out.([]any), nil
}

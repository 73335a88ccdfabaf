package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"gremlinbridge/internal/client"
	"gremlinbridge/internal/config"
	"gremlinbridge/internal/query"
	"gremlinbridge/internal/store"
	"gremlinbridge/internal/transport/gremlin"
	"gremlinbridge/internal/transport/neo4j"
)

// runtime carries what every command needs once flags and environment are resolved.
type runtime struct {
	app      config.App
	log      config.Logger
	registry *prometheus.Registry
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	app, err := config.LoadApp()
	if err != nil {
		return nil, err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		app = app.WithBackend(backend)
	}
	if cmd.Flags().Changed("strict") {
		strict, _ := cmd.Flags().GetBool("strict")
		app = app.WithStrict(strict)
	}
	if path, _ := cmd.Flags().GetString("duckdb"); path != "" {
		app = app.WithDuckDBPath(path)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		app.LogLevel = level
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	log, err := config.NewLogger(app.Environment, app.LogLevel)
	if err != nil {
		return nil, err
	}
	return &runtime{app: app, log: log, registry: prometheus.NewRegistry()}, nil
}

// connect opens the configured backend.
func (r *runtime) connect(ctx context.Context) (*client.Bridge, error) {
	metrics, err := client.NewMetrics(r.registry)
	if err != nil {
		return nil, err
	}
	opts := []client.RunnerOption{client.WithLogger(r.log), client.WithMetrics(metrics)}

	switch r.app.Backend {
	case config.BackendCosmos:
		warnCosmosSerializer(r.log)
		cosmos, err := config.ResolveCosmos(config.Cosmos{})
		if err != nil {
			return nil, err
		}
		t, err := gremlin.New(gremlin.CosmosSettings(cosmos), r.log)
		if err != nil {
			return nil, err
		}
		return client.NewBridge(t, query.Gremlin{}, opts...), nil

	case config.BackendNeo4j:
		cfg, err := config.LoadNeo4j()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		t, err := neo4j.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client.NewBridge(t, query.Cypher{}, opts...), nil

	default:
		cfg, err := config.LoadGremlin()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		t, err := gremlin.New(gremlin.FromConfig(cfg), r.log)
		if err != nil {
			return nil, err
		}
		return client.NewBridge(t, query.Gremlin{}, opts...), nil
	}
}

const storeOpenTimeout = 10 * time.Second

// warnCosmosSerializer notes that the driver speaks GraphBinary while Cosmos DB only accepts
// GraphSON, so requests are likely to be rejected.
func warnCosmosSerializer(log config.Logger) {
	log.Warnw("cosmos backend: the gremlin driver sends GraphBinary and Cosmos DB accepts only GraphSON; requests may be rejected",
		"backend", config.BackendCosmos)
}

// openStore opens the DuckDB database named by GREMLINBRIDGE_DUCKDB_PATH.
func (r *runtime) openStore() (*store.Store, func() error, error) {
	db, err := store.NewDuckDBClient(r.app.DuckDBPath, store.WithTimeout(storeOpenTimeout))
	if err != nil {
		return nil, nil, err
	}
	return store.New(db), db.Close, nil
}

// close flushes the logger and reports query counters.
func (r *runtime) close() {
	families, err := r.registry.Gather()
	if err == nil {
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				labels := make([]any, 0, 2*len(m.GetLabel())+4)
				labels = append(labels, "metric", mf.GetName())
				for _, lp := range m.GetLabel() {
					labels = append(labels, lp.GetName(), lp.GetValue())
				}
				switch {
				case m.GetCounter() != nil:
					labels = append(labels, "value", m.GetCounter().GetValue())
				case m.GetHistogram() != nil:
					labels = append(labels, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
				}
				r.log.Debugw("metrics", labels...)
			}
		}
	}
	_ = r.log.Sync()
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"gremlinbridge/internal/client"
	"gremlinbridge/internal/config"
	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/mcpserver"
	"gremlinbridge/internal/query"
	"gremlinbridge/internal/render"
	"gremlinbridge/internal/table"
)

func runQuery(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetString("save")
	maxRows, _ := cmd.Flags().GetInt("max-rows")
	nodesOut, _ := cmd.Flags().GetString("nodes-out")
	edgesOut, _ := cmd.Flags().GetString("edges-out")

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	bridge, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer bridge.Close(ctx)

	g, err := bridge.Query(ctx, graph.Graph{}, args...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Graph(g, maxRows))

	fs := afero.NewOsFs()
	if nodesOut != "" && g.Nodes() != nil {
		if err := table.WriteCSV(fs, nodesOut, g.Nodes()); err != nil {
			return err
		}
	}
	if edgesOut != "" && g.Edges() != nil {
		if err := table.WriteCSV(fs, edgesOut, g.Edges()); err != nil {
			return err
		}
	}
	return saveGraph(ctx, rt, save, g)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	g, err := graphFromFlags(cmd, afero.NewOsFs())
	if err != nil {
		return err
	}
	opts, err := uploadOptions(cmd)
	if err != nil {
		return err
	}

	if dryRun {
		return printQueries(cmd.OutOrStdout(), g, opts)
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()
	if rt.app.Backend == config.BackendNeo4j {
		return errs.Config("backend", "upload emits Gremlin mutations and needs a Gremlin backend")
	}
	opts.Strict = rt.app.Strict
	if rt.app.Backend == config.BackendCosmos && opts.Nodes.PartitionKey == "" {
		cosmos, err := config.ResolveCosmos(config.Cosmos{})
		if err != nil {
			return err
		}
		opts.Nodes.PartitionKey = cosmos.PartitionKey
	}

	ctx := cmd.Context()
	bridge, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer bridge.Close(ctx)

	results, err := bridge.Upload(ctx, g, opts)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", r.Err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submitted %d queries, %d failed\n", len(results), failed)
	return err
}

func runFetchNodes(cmd *cobra.Command, _ []string) error {
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	out, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetString("save")
	maxRows, _ := cmd.Flags().GetInt("max-rows")

	fs := afero.NewOsFs()
	g, err := graphFromFlags(cmd, fs)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()
	if batchSize != 0 {
		rt.app = rt.app.WithBatchSize(batchSize)
	}

	ctx := cmd.Context()
	bridge, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer bridge.Close(ctx)

	enriched, err := bridge.FetchNodes(ctx, g, rt.app.BatchSize)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Table(enriched.Nodes(), maxRows))

	if out != "" {
		if err := table.WriteCSV(fs, out, enriched.Nodes()); err != nil {
			return err
		}
	}
	return saveGraph(ctx, rt, save, enriched)
}

func runDrop(cmd *cobra.Command, _ []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errs.Config("yes", "drop removes the whole graph; pass --yes to confirm")
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	bridge, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer bridge.Close(ctx)

	if err := bridge.DropGraph(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "graph dropped")
	return nil
}

func runMCP(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	bridge, err := rt.connect(ctx)
	if err != nil {
		return err
	}
	defer bridge.Close(ctx)

	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcpserver.NewServer(mcpserver.Config{
		ServerName:    "gremlinbridge",
		ServerVersion: version,
		BatchSize:     rt.app.BatchSize,
	}, bridge, st, rt.log)
	return srv.Start(ctx)
}

// graphFromFlags loads the --nodes and --edges CSV files bound by --node-col, --src and --dst.
func graphFromFlags(cmd *cobra.Command, fs afero.Fs) (graph.Graph, error) {
	nodesPath, _ := cmd.Flags().GetString("nodes")
	edgesPath, _ := cmd.Flags().GetString("edges")
	nodeCol, _ := cmd.Flags().GetString("node-col")
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	return loadGraph(fs, nodesPath, edgesPath, graph.Bindings{Node: nodeCol, Source: src, Destination: dst})
}

func loadGraph(fs afero.Fs, nodesPath, edgesPath string, b graph.Bindings) (graph.Graph, error) {
	if nodesPath == "" && edgesPath == "" {
		return graph.Graph{}, errs.Config("nodes", "pass --nodes and/or --edges")
	}
	var nodes, edges *table.Table
	var err error
	if nodesPath != "" {
		if nodes, err = table.ReadCSV(fs, nodesPath); err != nil {
			return graph.Graph{}, err
		}
	}
	if edgesPath != "" {
		if edges, err = table.ReadCSV(fs, edgesPath); err != nil {
			return graph.Graph{}, err
		}
	}
	return graph.New(nodes, edges, b), nil
}

func uploadOptions(cmd *cobra.Command) (client.UploadOptions, error) {
	pk, _ := cmd.Flags().GetString("partition-key")
	pv, _ := cmd.Flags().GetString("partition-value")
	idCol, _ := cmd.Flags().GetString("id-col")
	typeCol, _ := cmd.Flags().GetString("type-col")
	edgeTypeCol, _ := cmd.Flags().GetString("edge-type-col")

	opts := client.UploadOptions{
		Nodes: query.NodeQueryOptions{
			PartitionKey: pk,
			IDColumn:     idCol,
			TypeColumn:   typeCol,
		},
		EdgeTypeColumn: edgeTypeCol,
	}
	if pv != "" {
		if pk == "" {
			return client.UploadOptions{}, errs.Config("partition-value", "requires --partition-key")
		}
		opts.Nodes.PartitionValue = pv
	}
	return opts, nil
}

func printQueries(w io.Writer, g graph.Graph, opts client.UploadOptions) error {
	for q, err := range client.UploadQueries(g, opts) {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, q)
	}
	return nil
}

func saveGraph(ctx context.Context, rt *runtime, prefix string, g graph.Graph) error {
	if prefix == "" {
		return nil
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	if err := st.SaveGraph(ctx, prefix, g); err != nil {
		return err
	}
	rt.log.Infow("saved graph", "prefix", prefix, "path", rt.app.DuckDBPath)
	return nil
}

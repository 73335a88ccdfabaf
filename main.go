package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gremlinbridge/internal/graph"
)

const version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gremlinbridge",
		Short: "Move graphs between node/edge tables and Gremlin or Neo4j databases",
		Long: `gremlinbridge runs traversal queries and turns the returned vertices and edges into
node and edge tables, uploads node and edge tables as vertex and edge creation queries, and
enriches bare node ids with their stored properties.

Connection settings come from flags, the environment and .env files:
  COSMOS_ACCOUNT, COSMOS_DB, COSMOS_CONTAINER, COSMOS_PRIMARY_KEY, COSMOS_PARTITION_KEY
  GREMLIN_ENDPOINT, GREMLIN_USERNAME, GREMLIN_PASSWORD, GREMLIN_TRAVERSAL_SOURCE
  NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, NEO4J_DATABASE

The cosmos backend builds the Cosmos DB endpoint and credentials, but the gremlin driver
serializes requests as GraphBinary and Cosmos DB accepts only GraphSON, so Cosmos DB is
likely to reject them. Gremlin Server and Neptune endpoints work with the gremlin backend.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("backend", "", "gremlin, cosmos (GraphSON caveat, see help) or neo4j (default from GREMLINBRIDGE_BACKEND)")
	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, ".env files to load")
	rootCmd.PersistentFlags().Bool("strict", false, "abort at the first failed query")
	rootCmd.PersistentFlags().String("duckdb", "", "DuckDB file for --save (default GREMLINBRIDGE_DUCKDB_PATH, in-memory when unset)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gremlinbridge v%s\n", version)
		},
	})

	queryCmd := &cobra.Command{
		Use:   "query <query>...",
		Short: "Run queries and print the resulting node and edge tables",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}
	queryCmd.Flags().String("save", "", "store the result in DuckDB under this table prefix")
	queryCmd.Flags().Int("max-rows", 20, "rows to print per table (0 prints all)")
	queryCmd.Flags().String("nodes-out", "", "write the node table to this CSV file")
	queryCmd.Flags().String("edges-out", "", "write the edge table to this CSV file")
	rootCmd.AddCommand(queryCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Create vertices and edges from CSV node and edge tables",
		RunE:  runUpload,
	}
	addTableFlags(uploadCmd)
	uploadCmd.Flags().String("partition-key", "", "partition key property added to vertices (default COSMOS_PARTITION_KEY for cosmos)")
	uploadCmd.Flags().String("partition-value", "", "partition key value (default \"1\")")
	uploadCmd.Flags().String("id-col", "", "property name for node ids (default \"id\")")
	uploadCmd.Flags().String("type-col", "", "node type column (default category, then type)")
	uploadCmd.Flags().String("edge-type-col", "", "edge type column (default edgeType, category, then type)")
	uploadCmd.Flags().Bool("dry-run", false, "print the queries without connecting")
	rootCmd.AddCommand(uploadCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch-nodes",
		Short: "Look up the vertices of a node or edge table and print their properties",
		RunE:  runFetchNodes,
	}
	addTableFlags(fetchCmd)
	fetchCmd.Flags().Int("batch-size", 0, "ids per lookup query (default GREMLINBRIDGE_BATCH_SIZE)")
	fetchCmd.Flags().String("out", "", "write the enriched node table to this CSV file")
	fetchCmd.Flags().String("save", "", "store the enriched graph in DuckDB under this table prefix")
	fetchCmd.Flags().Int("max-rows", 20, "rows to print (0 prints all)")
	rootCmd.AddCommand(fetchCmd)

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "Remove every vertex and edge from the database",
		RunE:  runDrop,
	}
	dropCmd.Flags().Bool("yes", false, "confirm the drop")
	rootCmd.AddCommand(dropCmd)

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the bridge as MCP tools on stdio",
		RunE:  runMCP,
	}
	rootCmd.AddCommand(mcpCmd)

	return rootCmd
}

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().String("nodes", "", "node table CSV file")
	cmd.Flags().String("edges", "", "edge table CSV file")
	cmd.Flags().String("node-col", "", "node id column of the node table")
	cmd.Flags().String("src", graph.DefaultSourceColumn, "source column of the edge table")
	cmd.Flags().String("dst", graph.DefaultDestinationColumn, "destination column of the edge table")
}

// Package mcpserver exposes the bridge as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gremlinbridge/internal/client"
	"gremlinbridge/internal/config"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/query"
	"gremlinbridge/internal/table"
)

// Bridge is the part of *client.Bridge the tools use.
type Bridge interface {
	Query(ctx context.Context, base graph.Graph, queries ...string) (graph.Graph, error)
	FetchNodes(ctx context.Context, g graph.Graph, batchSize int) (graph.Graph, error)
	DropGraph(ctx context.Context) error
}

// GraphSaver persists query results. *store.Store satisfies it.
type GraphSaver interface {
	SaveGraph(ctx context.Context, prefix string, g graph.Graph) error
}

// Server wraps the MCP server with the bridge tools.
type Server struct {
	mcpServer *mcp.Server
	bridge    Bridge
	saver     GraphSaver
	log       config.Logger
	batchSize int
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
	BatchSize     int // default node enrichment batch size
}

// NewServer creates a new MCP server instance. saver may be nil, which disables save_as.
func NewServer(cfg Config, bridge Bridge, saver GraphSaver, log config.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	s := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		bridge:    bridge,
		saver:     saver,
		log:       log,
		batchSize: cfg.BatchSize,
	}
	s.registerTools()
	return s
}

// TableResult is a table in column order.
type TableResult struct {
	Columns []string `json:"columns" jsonschema:"column names in order"`
	Rows    [][]any  `json:"rows" jsonschema:"row values in column order, null for missing"`
}

// GraphResult holds the node and edge tables of a graph.
type GraphResult struct {
	Nodes *TableResult `json:"nodes,omitempty" jsonschema:"node table, absent when no vertex was returned"`
	Edges *TableResult `json:"edges,omitempty" jsonschema:"edge table"`
}

// RunQueryArgs defines the input for the run_query tool.
type RunQueryArgs struct {
	Queries []string `json:"queries" jsonschema:"queries to run in order"`
	SaveAs  string   `json:"save_as,omitempty" jsonschema:"table prefix to store the result under"`
}

// FetchNodesArgs defines the input for the fetch_nodes tool.
type FetchNodesArgs struct {
	IDs       []string `json:"ids" jsonschema:"vertex ids to look up"`
	BatchSize int      `json:"batch_size,omitempty" jsonschema:"ids per lookup query"`
}

// GraphQueriesArgs defines the input for the graph_queries tool.
type GraphQueriesArgs struct {
	Nodes          []map[string]any `json:"nodes,omitempty" jsonschema:"node rows"`
	Edges          []map[string]any `json:"edges,omitempty" jsonschema:"edge rows"`
	NodeColumn     string           `json:"node_column,omitempty" jsonschema:"node id column"`
	Source         string           `json:"source,omitempty" jsonschema:"edge source column (default src)"`
	Destination    string           `json:"destination,omitempty" jsonschema:"edge destination column (default dst)"`
	PartitionKey   string           `json:"partition_key,omitempty" jsonschema:"partition key property added to vertices"`
	TypeColumn     string           `json:"type_column,omitempty" jsonschema:"node type column"`
	EdgeTypeColumn string           `json:"edge_type_column,omitempty" jsonschema:"edge type column"`
}

// GraphQueriesResult wraps generated queries.
type GraphQueriesResult struct {
	Queries []string `json:"queries" jsonschema:"generated mutation queries"`
}

// DropGraphArgs defines the input for the drop_graph tool.
type DropGraphArgs struct {
	Confirm bool `json:"confirm" jsonschema:"must be true"`
}

// DropGraphResult reports the drop.
type DropGraphResult struct {
	Dropped bool `json:"dropped"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_query",
		Description: "Run one or more graph traversal queries and return the resulting vertices and edges as node and edge tables. Stops at the first failing query.",
	}, s.handleRunQuery)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fetch_nodes",
		Description: "Look up vertices by id in batches and return their properties as a node table.",
	}, s.handleFetchNodes)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "graph_queries",
		Description: "Generate the vertex and edge creation queries for node and edge rows without running them.",
	}, s.handleGraphQueries)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "drop_graph",
		Description: "Remove every vertex and edge from the database. Requires confirm=true.",
	}, s.handleDropGraph)
}

func (s *Server) handleRunQuery(ctx context.Context, _ *mcp.CallToolRequest, args RunQueryArgs) (*mcp.CallToolResult, GraphResult, error) {
	if len(args.Queries) == 0 {
		return nil, GraphResult{}, fmt.Errorf("queries must not be empty")
	}
	g, err := s.bridge.Query(ctx, graph.Graph{}, args.Queries...)
	if err != nil {
		return nil, GraphResult{}, fmt.Errorf("query failed: %w", err)
	}
	if args.SaveAs != "" {
		if s.saver == nil {
			return nil, GraphResult{}, fmt.Errorf("save_as requires a configured store")
		}
		if err := s.saver.SaveGraph(ctx, args.SaveAs, g); err != nil {
			return nil, GraphResult{}, fmt.Errorf("save failed: %w", err)
		}
		s.log.Infow("saved query result", "prefix", args.SaveAs)
	}
	return nil, graphResult(g), nil
}

func (s *Server) handleFetchNodes(ctx context.Context, _ *mcp.CallToolRequest, args FetchNodesArgs) (*mcp.CallToolResult, GraphResult, error) {
	if len(args.IDs) == 0 {
		return nil, GraphResult{}, fmt.Errorf("ids must not be empty")
	}
	rows := make([][]any, len(args.IDs))
	for i, id := range args.IDs {
		rows[i] = []any{id}
	}
	nodes, err := table.New([]string{graph.DefaultNodeColumn}, rows)
	if err != nil {
		return nil, GraphResult{}, err
	}

	batch := args.BatchSize
	if batch == 0 {
		batch = s.batchSize
	}
	g, err := s.bridge.FetchNodes(ctx, graph.New(nodes, nil, graph.Bindings{Node: graph.DefaultNodeColumn}), batch)
	if err != nil {
		return nil, GraphResult{}, fmt.Errorf("fetch nodes failed: %w", err)
	}
	return nil, GraphResult{Nodes: tableResult(g.Nodes())}, nil
}

func (s *Server) handleGraphQueries(_ context.Context, _ *mcp.CallToolRequest, args GraphQueriesArgs) (*mcp.CallToolResult, GraphQueriesResult, error) {
	g := graph.New(recordTable(args.Nodes), recordTable(args.Edges), graph.Bindings{
		Node:        args.NodeColumn,
		Source:      args.Source,
		Destination: args.Destination,
	}.Merge(graph.Bindings{Source: graph.DefaultSourceColumn, Destination: graph.DefaultDestinationColumn}))

	queries, err := collectQueries(client.UploadQueries(g, client.UploadOptions{
		Nodes:          query.NodeQueryOptions{PartitionKey: args.PartitionKey, TypeColumn: args.TypeColumn},
		EdgeTypeColumn: args.EdgeTypeColumn,
	}))
	if err != nil {
		return nil, GraphQueriesResult{}, err
	}
	return nil, GraphQueriesResult{Queries: queries}, nil
}

func (s *Server) handleDropGraph(ctx context.Context, _ *mcp.CallToolRequest, args DropGraphArgs) (*mcp.CallToolResult, DropGraphResult, error) {
	if !args.Confirm {
		return nil, DropGraphResult{}, fmt.Errorf("drop_graph requires confirm=true")
	}
	if err := s.bridge.DropGraph(ctx); err != nil {
		return nil, DropGraphResult{}, fmt.Errorf("drop failed: %w", err)
	}
	s.log.Warnw("graph dropped")
	return nil, DropGraphResult{Dropped: true}, nil
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	s.log.Infow("starting gremlinbridge MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func collectQueries(seq iter.Seq2[string, error]) ([]string, error) {
	out := []string{}
	for q, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// recordTable builds a table from JSON objects. Object keys carry no order, so each row's
// keys are sorted.
func recordTable(rows []map[string]any) *table.Table {
	if rows == nil {
		return nil
	}
	records := make([]table.Record, len(rows))
	for i, m := range rows {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			records[i].Set(k, m[k])
		}
	}
	return table.FromRecords(records)
}

func graphResult(g graph.Graph) GraphResult {
	return GraphResult{Nodes: tableResult(g.Nodes()), Edges: tableResult(g.Edges())}
}

func tableResult(t *table.Table) *TableResult {
	if t == nil {
		return nil
	}
	out := &TableResult{Columns: t.Columns(), Rows: make([][]any, 0, t.Len())}
	for r := range t.Rows() {
		row := make([]any, 0, r.Len())
		for _, k := range r.Keys() {
			v, _ := r.Get(k)
			row = append(row, v)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

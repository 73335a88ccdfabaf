package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gremlinbridge/internal/config"
)

func main() {
	backend := flag.String("backend", "", "backend passed to the server (default from GREMLINBRIDGE_BACKEND)")
	flag.Parse()

	if err := config.LoadDotEnv("env/.env", ".env"); err != nil {
		log.Fatalf("Failed to load env files: %v", err)
	}

	fmt.Println("Testing gremlinbridge MCP server and tool calling")
	fmt.Println("=================================================")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("Server binary not found. Run: go build -o gremlinbridge .")
	}
	fmt.Println("Test 1: server binary found")

	serverArgs := []string{"mcp"}
	if *backend != "" {
		serverArgs = append(serverArgs, "--backend", *backend)
	}
	cmd := exec.Command(serverPath, serverArgs...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect to MCP server: %v", err)
	}
	defer session.Close()
	fmt.Println("Test 2: connected to MCP server")

	fmt.Println("\nTest 3: listing available tools")
	listResult, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	fmt.Printf("  Found %d tools:\n", len(listResult.Tools))
	for _, tool := range listResult.Tools {
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}

	fmt.Println("\nTest 4: graph_queries (no database access)")
	report(session.CallTool(ctx, &mcp.CallToolParams{
		Name: "graph_queries",
		Arguments: map[string]any{
			"nodes": []map[string]any{{"id": "smoke-1", "type": "smoke", "name": "first"}},
			"edges": []map[string]any{{"src": "smoke-1", "dst": "smoke-1", "edgeType": "self"}},
		},
	}))

	fmt.Println("\nTest 5: run_query")
	queryCtx, queryCancel := context.WithTimeout(ctx, 15*time.Second)
	defer queryCancel()
	report(session.CallTool(queryCtx, &mcp.CallToolParams{
		Name:      "run_query",
		Arguments: map[string]any{"queries": []string{"g.V().limit(5)"}},
	}))

	fmt.Println("\n=================================================")
	fmt.Println("MCP tool calling tests complete")
	fmt.Println("\nTo test interactively, run: go run ./cmd/mcp-client ./gremlinbridge mcp")
}

func report(res *mcp.CallToolResult, err error) {
	if err != nil {
		fmt.Printf("  call failed: %v\n", err)
		return
	}
	if res.IsError {
		fmt.Println("  tool returned an error (is the database reachable?)")
	} else {
		fmt.Println("  tool called successfully")
	}
	for _, content := range res.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			preview := v.Text
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			fmt.Printf("    %s\n", preview)
		default:
			fmt.Printf("    [%T]\n", content)
		}
	}
}

func findServerBinary() string {
	candidates := []string{
		"./gremlinbridge",
		"../../gremlinbridge",
	}
	for _, p := range candidates {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}

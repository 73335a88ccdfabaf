package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/mcpserver"
	"gremlinbridge/internal/render"
	"gremlinbridge/internal/table"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client gremlinbridge mcp --backend neo4j")
		os.Exit(2)
	}

	ctx := context.Background()

	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "gremlinbridge-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("connected")
	fmt.Println("commands:")
	fmt.Println("  /tools           - List available tools")
	fmt.Println("  /fetch <id>...   - Look up vertices by id")
	fmt.Println("  /save <prefix> <query> - Run a query and store the result")
	fmt.Println("  /drop            - Remove every vertex and edge")
	fmt.Println("  /exit            - Exit the client")
	fmt.Println("  <query>          - Run a traversal query")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case input == "/exit":
			fmt.Println("Goodbye!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case strings.HasPrefix(input, "/fetch"):
			ids := strings.Fields(strings.TrimPrefix(input, "/fetch"))
			if len(ids) == 0 {
				fmt.Println("usage: /fetch <id>...")
				continue
			}
			callTool(ctx, session, "fetch_nodes", map[string]any{"ids": ids})

		case strings.HasPrefix(input, "/save "):
			parts := strings.SplitN(strings.TrimPrefix(input, "/save "), " ", 2)
			if len(parts) != 2 {
				fmt.Println("usage: /save <prefix> <query>")
				continue
			}
			callTool(ctx, session, "run_query", map[string]any{
				"queries": []string{parts[1]},
				"save_as": parts[0],
			})

		case input == "/drop":
			fmt.Print("Drop the whole graph? [y/N] ")
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Cancelled.")
				continue
			}
			callTool(ctx, session, "drop_graph", map[string]any{"confirm": true})

		default:
			callTool(ctx, session, "run_query", map[string]any{
				"queries": []string{input},
			})
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("list tools: %v", err)
			return
		}
		fmt.Printf("  %-14s %s\n", tool.Name, tool.Description)
	}
}

func callTool(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s: %v", name, err)
		return
	}
	if res.IsError {
		for _, c := range res.Content {
			if text, ok := c.(*mcp.TextContent); ok {
				fmt.Println("error:", text.Text)
			}
		}
		return
	}
	printStructured(res.StructuredContent)
}

// printStructured renders node and edge tables as tables and anything else as indented JSON.
func printStructured(content any) {
	raw, err := json.Marshal(content)
	if err != nil {
		fmt.Printf("%+v\n", content)
		return
	}
	var g mcpserver.GraphResult
	if json.Unmarshal(raw, &g) == nil && (g.Nodes != nil || g.Edges != nil) {
		fmt.Print(render.Graph(toGraph(g), 0))
		return
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}

func toGraph(g mcpserver.GraphResult) graph.Graph {
	toTable := func(r *mcpserver.TableResult) *table.Table {
		if r == nil {
			return nil
		}
		t, err := table.New(r.Columns, r.Rows)
		if err != nil {
			return nil
		}
		return t
	}
	return graph.New(toTable(g.Nodes), toTable(g.Edges), graph.DefaultBindings())
}

package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"curator/internal/adapters/fingerprint"
	mcpadapter "curator/internal/adapters/mcp"
	"curator/internal/adapters/sqlite"
	"curator/internal/application"
	"curator/internal/config"
)

func main() {
	dbFlag := flag.String("db", config.DatabasePath(), "path to the registry database")
	flag.Parse()

	store, err := sqlite.Open(*dbFlag)
	if err != nil {
		log.Fatalf("curator-mcp: %v", err)
	}
	defer store.Close()

	engine := application.NewEngine(store, fingerprint.NewHasher(), application.DefaultOptions())

	mcpServer := server.NewMCPServer(
		"curator-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, engine)
	mcpadapter.RegisterWriteTools(mcpServer, engine)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("curator-mcp: %v", err)
	}
}

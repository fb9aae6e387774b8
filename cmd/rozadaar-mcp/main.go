package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rozadaar/internal/adapters/httpclient"
	"rozadaar/internal/adapters/keyring"
	mcpadapter "rozadaar/internal/adapters/mcp"
	"rozadaar/internal/adapters/sqlite"
	"rozadaar/internal/adapters/timesource"
	"rozadaar/internal/application"
	"rozadaar/internal/application/clock"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/config"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

func main() {
	dataFlag := flag.String("data", config.StatePath(), "path to the local state database")
	apiFlag := flag.String("api", config.APIURL(), "remote base URL")
	readOnly := flag.Bool("read-only", false, "register only the read tools")
	flag.Parse()

	store, err := sqlite.Open(*dataFlag)
	if err != nil {
		log.Fatalf("rozadaar-mcp: %v", err)
	}
	defer store.Close()

	// stdout carries the protocol, so logs go to stderr
	logs := logger.NewStderrLogger("rozadaar-mcp")
	ctx := context.Background()

	state := application.NewLocalState(store, logs)
	catalog := application.LoadCatalog(ctx, state)
	corrector := clock.NewCorrector(ports.SystemClock, state, timesource.Defaults(*apiFlag), logs)
	corrector.Load(ctx)

	remote := httpclient.New(*apiFlag)
	deps := mcpadapter.Deps{
		Catalog:   catalog,
		Clock:     corrector,
		Loc:       config.Location(),
		Secret:    keyring.Resolve(config.Secret(), keyring.NewStore()),
		Analytics: remote,
	}
	if !*readOnly {
		deps.Reconciler = reconcile.NewReconciler(remote, catalog, nil, corrector, logs)
	}

	mcpServer := server.NewMCPServer(
		"rozadaar-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("rozadaar-mcp: %v", err)
	}
}

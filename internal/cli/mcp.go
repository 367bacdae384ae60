package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor"
	loamAdapter "github.com/aretw0/arbor/pkg/adapters/loam"
	"github.com/aretw0/arbor/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Dir    string
	Logger *slog.Logger
	// SSEAddr selects the SSE transport. Empty serves on stdio.
	SSEAddr string
}

// ServeMCP exposes the blueprints in opts.Dir as MCP tools.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	lib, err := loamAdapter.LoadLibrary(ctx, opts.Dir)
	if err != nil {
		return err
	}
	eng, err := arbor.New(arbor.WithLibrary(lib), arbor.WithLogger(opts.Logger))
	if err != nil {
		return err
	}

	srv := mcp.NewServer(eng, opts.Logger)
	if opts.SSEAddr != "" {
		return srv.ServeSSE(ctx, opts.SSEAddr)
	}
	return srv.ServeStdio()
}

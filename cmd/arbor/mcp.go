package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the blueprints as MCP tools",
	Long: `Starts a Model Context Protocol server with the list_views, render_view and
inspect_view tools. It speaks stdio unless --sse is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		sse, _ := cmd.Flags().GetString("sse")
		level, _ := cmd.Flags().GetString("log-level")

		// Logs go to stderr; stdout carries the protocol.
		logger, err := cli.CreateLogger(level)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.ServeMCP(ctx, cli.MCPOptions{
			Dir:     dir,
			Logger:  logger,
			SSEAddr: sse,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("sse", "", "Serve the SSE transport on this address instead of stdio")
}

package main

import (
	"fmt"
	"time"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP view server",
	Long: `Serves the blueprints in --dir: GET /views/{name} renders a view with the query
parameters as context, /healthz reports liveness and /metrics exposes Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		addr, _ := cmd.Flags().GetString("addr")
		cache, _ := cmd.Flags().GetString("cache")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		level, _ := cmd.Flags().GetString("log-level")
		if !cmd.Flags().Changed("log-level") {
			level = "info"
		}
		logger, err := cli.CreateLogger(level)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		err = cli.Serve(ctx, cli.ServeOptions{
			Dir:    dir,
			Addr:   addr,
			Logger: logger,
			Out:    cmd.OutOrStdout(),

			Cache:     cache,
			RedisAddr: redisAddr,
			CacheTTL:  ttl,
		})
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Shutdown on signal: %v\n", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("cache", "none", "Rendered html cache: none, memory or redis")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address for --cache redis")
	serveCmd.Flags().Duration("cache-ttl", 5*time.Minute, "Expiry of cached html in Redis (0 keeps entries until restart)")
}

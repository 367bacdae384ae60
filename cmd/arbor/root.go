package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "arbor renders instruction-driven view trees",
	Long: `arbor compiles YAML view blueprints into templates and renders them through the
instruction-driven view engine, to stdout or over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing view blueprints")
	rootCmd.PersistentFlags().String("log-level", "", "Log to stderr at this level (debug, info, warn, error)")
}

// renderOptions collects the flags shared by render and inspect.
func renderOptions(cmd *cobra.Command, args []string) (cli.RenderOptions, error) {
	dir, _ := cmd.Flags().GetString("dir")
	level, _ := cmd.Flags().GetString("log-level")
	set, _ := cmd.Flags().GetStringArray("set")
	contextFile, _ := cmd.Flags().GetString("context")
	refresh, _ := cmd.Flags().GetInt("refresh")

	logger, err := cli.CreateLogger(level)
	if err != nil {
		return cli.RenderOptions{}, err
	}
	return cli.RenderOptions{
		Dir:         dir,
		View:        args[0],
		ContextFile: contextFile,
		Set:         set,
		Refresh:     refresh,
		Logger:      logger,
	}, nil
}

func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Context value as key=value (YAML value, repeatable)")
	cmd.Flags().String("context", "", "YAML file with the render context")
	cmd.Flags().Int("refresh", 0, "Number of refresh passes to run after the first render")
}

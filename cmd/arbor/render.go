package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <view>",
	Short: "Render a view to HTML",
	Long:  `Loads the blueprints in --dir, renders the named view with the given context and prints its HTML.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := renderOptions(cmd, args)
		if err != nil {
			return err
		}
		opts.Stats, _ = cmd.Flags().GetBool("stats")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Render(ctx, cmd.OutOrStdout(), opts)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the views in --dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return cli.ListViews(cmd.Context(), cmd.OutOrStdout(), dir)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(listCmd)
	addContextFlags(renderCmd)
	renderCmd.Flags().Bool("stats", false, "Print renderer call counters after the HTML")
}

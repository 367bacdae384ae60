package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <view>",
	Short: "Show the live view tree of a rendered view",
	Long: `Renders the named view and prints its tree of root, component and embedded views,
as a Markdown outline (default), a Mermaid diagram (graph TD) or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := renderOptions(cmd, args)
		if err != nil {
			return err
		}
		opts.Format, _ = cmd.Flags().GetString("format")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Inspect(ctx, cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addContextFlags(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, mermaid or json")
}

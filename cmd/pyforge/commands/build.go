package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pyforge/internal/engine/orchestrator"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project with the configured backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.app.Build(cmd.Context(), orchestrator.Options{
				ProjectRoot: ".",
				OutputDir:   output,
				NoCache:     noCache,
			})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Artifact output directory (default dist)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the build cache and force execution")
	return cmd
}

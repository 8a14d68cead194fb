package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pyforge/internal/app"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Scaffold a new project in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			backend, _ := cmd.Flags().GetString("backend")
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Init(cmd.Context(), ".", app.InitOptions{
				Name:    name,
				Backend: backend,
				Force:   force,
			})
		},
	}
	cmd.Flags().StringP("backend", "b", "", "Build backend for the new project (default python)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing manifest")
	return cmd
}

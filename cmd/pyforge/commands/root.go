// Package commands implements the CLI commands for the pyforge tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/pyforge/internal/app"
	"go.trai.ch/pyforge/internal/build"
)

// CLI represents the command line interface for pyforge.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pyforge",
		Short:         "Python project scaffolding and build orchestration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newUninstallCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

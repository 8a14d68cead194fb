package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [package]",
		Short: "Install a package, or all declared dependencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			spec, _ := cmd.Flags().GetString("spec")
			dev, _ := cmd.Flags().GetBool("dev")
			return c.app.Install(cmd.Context(), name, spec, dev)
		},
	}
	cmd.Flags().StringP("spec", "s", "", "Version specifier, e.g. ^1.2.0")
	cmd.Flags().BoolP("dev", "d", false, "Operate on dev-dependencies")
	return cmd
}

func (c *CLI) newUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <package>",
		Short: "Remove a package and its declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, _ := cmd.Flags().GetBool("dev")
			return c.app.Uninstall(cmd.Context(), args[0], dev)
		},
	}
	cmd.Flags().BoolP("dev", "d", false, "Operate on dev-dependencies")
	return cmd
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages in the project environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installed, err := c.app.ListInstalled(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(installed))
			for name := range installed {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, installed[name])
			}
			return nil
		},
	}
}

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Regenerate the dependency lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Lock(cmd.Context())
		},
	}
}

// filepath: internal/cli/vault.go
package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage registered vaults",
}

var vaultAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a directory as a vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.vaults.AddVault(args[0], name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered vault %d (%s) at %s\n", v.ID, v.DisplayName, v.RootPath)
		return nil
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered vaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		vaults, err := a.vaults.ListVaults()
		if err != nil {
			return err
		}
		var defaultID int64
		if def, err := a.vaults.DefaultVault(); err == nil && def != nil {
			defaultID = def.ID
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPATH\tVISIBLE\tDEFAULT")
		for _, v := range vaults {
			marker := ""
			if v.ID == defaultID {
				marker = "*"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", v.ID, v.DisplayName, v.RootPath, v.Visible, marker)
		}
		return tw.Flush()
	},
}

var vaultRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Unregister a vault and drop its catalog entries. Files stay on disk.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.vaults.RemoveVault(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed vault %d\n", id)
		return nil
	},
}

var vaultDefaultCmd = &cobra.Command{
	Use:   "default <id>",
	Short: "Make a vault the default target for new top-level folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.vaults.SetDefaultVault(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Vault %d is now the default\n", id)
		return nil
	},
}

func init() {
	vaultAddCmd.Flags().String("name", "", "Display name, defaults to the directory name")

	vaultCmd.AddCommand(vaultAddCmd, vaultListCmd, vaultRemoveCmd, vaultDefaultCmd)
	RootCmd.AddCommand(vaultCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", s)
	}
	return id, nil
}

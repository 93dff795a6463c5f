// filepath: internal/cli/migrate.go
package cli

import (
	"fmt"

	"photovault/internal/logging"
	"photovault/internal/repository"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Catalog migration tools",
	Long:  `Manage the catalog schema version. Use subcommands 'up', 'down', or 'status'.`,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Migrate the catalog to the most recent version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the catalog by one version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration("down")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Dump the migration status for the current catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration("status")
	},
}

// repairCmd re-establishes catalog invariants left broken by an interrupted
// operation or by an older release.
var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair album links, image vaults and parent cycles in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.repo.RepairInvariants()
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Images realigned: %d\nAlbums detached: %d\nCycles broken: %d\n",
			report.ImagesRealigned, report.AlbumsDetached, report.CyclesBroken)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(repairCmd)
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
	migrateCmd.AddCommand(statusCmd)
}

func runMigration(command string) error {
	// The root command's PersistentPreRunE has already loaded the 'cfg' global.
	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	logging.Log.Infof("Running migration command: %s", command)
	if err := repo.Migrate(command); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logging.Log.Info("Migration operation completed successfully.")
	return nil
}

// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Copies every record from the configured backend to another one.
package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/config"
	"github.com/harperreed/fitcoach/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all fitcoach data from the configured backend to another one.

BACKENDS:

  charm     Charm KV, synced across devices (default)
  badger    Local badger database at <data_dir>/badger
  sqlite    Local SQLite database at <data_dir>/fitcoach.db

Records missing from the source are removed from the destination, so the
destination ends up as an exact copy. Use --switch to make the destination
the configured backend afterwards.

EXAMPLES:

  fitcoach migrate --to sqlite
  fitcoach migrate --to badger --switch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(config.Backends, migrateTo) {
			return fmt.Errorf("unknown backend: %q (want one of %s)", migrateTo, strings.Join(config.Backends, ", "))
		}
		from := cfg.GetBackend()
		if migrateTo == from {
			return fmt.Errorf("already using the %s backend", from)
		}

		dst, err := cfg.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.Migrate(store.Backend(), dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", from, migrateTo)
		fmt.Printf("  Copied:  %s\n", listOrNone(summary.Copied))
		fmt.Printf("  Empty:   %s\n", listOrNone(summary.Missing))

		if migrateSwitch {
			cfg.Backend = migrateTo
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Now using the %s backend", migrateTo)
		}
		return nil
	},
}

func listOrNone(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (charm, badger, sqlite)")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "use the destination backend from now on")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}

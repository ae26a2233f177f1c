// ABOUTME: CLI commands for exporting and importing fitcoach data.
// ABOUTME: JSON is a full backup; YAML is a human-readable summary.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export fitcoach data",
	Long: `Export fitcoach data.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML summary (human-readable)

EXAMPLES:

  fitcoach export json                  # Print JSON to stdout
  fitcoach export json -o backup.json   # Save to file
  fitcoach export yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = store.ExportJSON(ctrl.Now())
		case "yaml":
			data, err = store.ExportYAML(ctrl.Now())
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import fitcoach data from JSON",
	Long: `Import fitcoach data from a JSON backup file.

The file replaces everything currently stored, including the profile.
Export first if you want to keep the current data.

EXAMPLES:

  fitcoach import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := store.ImportJSON(data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if _, err := ctrl.Load(); err != nil {
			return fmt.Errorf("failed to reload data: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

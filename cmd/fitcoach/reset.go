// ABOUTME: CLI command for erasing all fitcoach data.
// ABOUTME: Removes profile, plan, histories, chat, and PRs after confirmation.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetSkipConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all fitcoach data",
	Long: `Erase your profile, plan, workout and nutrition history, chat, and
personal records. This cannot be undone; export first if you want a backup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetSkipConfirm && !confirm("This will DELETE all fitcoach data. Continue?") {
			fmt.Println("Canceled.")
			return nil
		}

		if _, err := ctrl.ResetAll(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Yellow("✗ All data erased")
		fmt.Println("Run 'fitcoach setup' to start again.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetSkipConfirm, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

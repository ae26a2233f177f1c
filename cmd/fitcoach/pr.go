// ABOUTME: CLI commands for personal records.
// ABOUTME: Adds PRs dated today and lists them most recent first.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var prListLimit int

var prCmd = &cobra.Command{
	Use:         "pr",
	Aliases:     []string{"prs", "record"},
	Short:       "Track personal records",
	Annotations: gated(gateProfile),
	Long: `Track personal records (weight × reps). PRs are dated today and show up
as * on the calendar.

EXAMPLES:

  fitcoach pr add "Bench Press" 80 5
  fitcoach pr add Deadlift 140.5 3
  fitcoach pr list`,
}

var prAddCmd = &cobra.Command{
	Use:   "add <exercise> <weight> <reps>",
	Short: "Record a personal best",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		_, pr, err := ctrl.AddPR(args[0], weight, reps)
		if err != nil {
			return err
		}

		color.Green("✓ New PR: %s", pr.ExerciseName)
		fmt.Printf("  %s %s × %d\n", color.New(color.Faint).Sprint(pr.Date), formatWeight(pr.Weight), pr.Reps)
		return nil
	},
}

var prListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List personal records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		prs := ctrl.SortedPRs()
		if len(prs) == 0 {
			fmt.Println("No personal records yet.")
			return nil
		}
		if prListLimit > 0 && len(prs) > prListLimit {
			prs = prs[:prListLimit]
		}

		faint := color.New(color.Faint)
		for _, pr := range prs {
			fmt.Printf("%s %s %s × %d\n",
				faint.Sprint(pr.Date),
				padRight(pr.ExerciseName, 24),
				formatWeight(pr.Weight),
				pr.Reps)
		}
		return nil
	},
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func init() {
	prListCmd.Flags().IntVarP(&prListLimit, "limit", "n", 20, "max number of results (0 for all)")

	prCmd.AddCommand(prAddCmd)
	prCmd.AddCommand(prListCmd)
	rootCmd.AddCommand(prCmd)
}

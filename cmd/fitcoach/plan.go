// ABOUTME: CLI commands for the weekly workout plan.
// ABOUTME: Supports generate, show, and clear.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/progress"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:         "plan",
	Short:       "Manage your weekly workout plan",
	Annotations: gated(gateProfile),
	Long: `Manage your weekly workout plan.

The plan always has seven days, Monday first. Generating a new plan replaces
the old one and clears your completion history.

COMMANDS:

  generate    Ask the AI coach for a new plan
  show        Print the full week
  clear       Remove the plan (history is kept)`,
}

var planGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "new"},
	Short:   "Generate a new weekly plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ctrl.RequireProfile()
		if err != nil {
			return err
		}
		return generatePlan(cmd.Context(), profile)
	},
}

var planShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the weekly plan",
	Annotations: gated(gatePlan),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := ctrl.RequirePlan()
		if err != nil {
			return err
		}
		printPlan(plan)
		return nil
	},
}

var planClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the weekly plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ctrl.SetPlan(nil); err != nil {
			return err
		}
		color.Yellow("✗ Plan removed")
		return nil
	},
}

func printPlan(plan *models.WorkoutPlan) {
	if plan == nil {
		return
	}
	today := progress.PlanDayIndex(ctrl.Now())
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	for i, day := range plan.WeeklyPlan {
		header := day.Day
		if i == today {
			header += " (today)"
		}
		fmt.Println()
		if day.IsRestDay {
			fmt.Printf("%s %s\n", bold.Sprint(header), faint.Sprint("Rest Day"))
			continue
		}
		fmt.Println(bold.Sprint(header))
		for _, e := range day.Exercises {
			fmt.Printf("  • %s %s\n", e.Name, faint.Sprintf("%d×%s", e.Sets, e.Reps))
		}
	}
}

func init() {
	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planClearCmd)
	rootCmd.AddCommand(planCmd)
}

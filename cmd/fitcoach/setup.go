// ABOUTME: CLI commands for creating and viewing the fitness profile.
// ABOUTME: setup saves a profile (optionally generating a plan); profile show prints it.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/spf13/cobra"
)

var (
	setupName      string
	setupLevel     string
	setupGoal      string
	setupDays      int
	setupEquipment string
	setupGenerate  bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or replace your fitness profile",
	Long: `Create or replace your fitness profile.

LEVELS:    beginner, intermediate, advanced
GOALS:     strength, hypertrophy, endurance, general
DAYS:      2 to 5 training days per week (the rest are rest days)

Replacing a profile keeps your existing plan. Use --generate (or run
'fitcoach plan generate') to build a new plan for the new profile.

EXAMPLES:

  fitcoach setup --name Sam --level beginner --goal strength --days 3
  fitcoach setup --name Sam --level advanced --goal endurance --days 5 \
      --equipment "kettlebells, pull-up bar" --generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := models.ParseLevel(setupLevel)
		if err != nil {
			return err
		}
		goal, err := models.ParseGoal(setupGoal)
		if err != nil {
			return err
		}

		profile := models.UserProfile{
			Name:      setupName,
			Level:     level,
			Goal:      goal,
			Days:      setupDays,
			Equipment: setupEquipment,
		}
		if _, err := ctrl.Login(profile); err != nil {
			return err
		}

		color.Green("✓ Saved profile for %s", profile.Name)
		printProfile(profile)

		if setupGenerate {
			return generatePlan(cmd.Context(), profile)
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:         "profile",
	Short:       "Show your fitness profile",
	Annotations: gated(gateProfile),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ctrl.RequireProfile()
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your fitness profile",
	RunE:  profileCmd.RunE,
}

func printProfile(p models.UserProfile) {
	faint := color.New(color.Faint)
	fmt.Printf("  %s %s\n", faint.Sprint("Name:     "), p.Name)
	fmt.Printf("  %s %s\n", faint.Sprint("Level:    "), p.Level)
	fmt.Printf("  %s %s\n", faint.Sprint("Goal:     "), models.GoalLabels[p.Goal])
	fmt.Printf("  %s %d per week\n", faint.Sprint("Days:     "), p.Days)
	equipment := p.Equipment
	if equipment == "" {
		equipment = "bodyweight only"
	}
	fmt.Printf("  %s %s\n", faint.Sprint("Equipment:"), equipment)
}

func generatePlan(ctx context.Context, profile models.UserProfile) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Println(color.New(color.Faint).Sprint("Generating your weekly plan..."))
	st, err := ctrl.GeneratePlan(ctx, profile)
	if err != nil {
		return aiError(st, err)
	}
	color.Green("✓ New weekly plan ready")
	printPlan(st.Plan)
	return nil
}

func init() {
	setupCmd.Flags().StringVar(&setupName, "name", "", "your name")
	setupCmd.Flags().StringVar(&setupLevel, "level", string(models.LevelBeginner), "fitness level")
	setupCmd.Flags().StringVar(&setupGoal, "goal", string(models.GoalGeneral), "primary goal")
	setupCmd.Flags().IntVar(&setupDays, "days", 3, "training days per week (2-5)")
	setupCmd.Flags().StringVar(&setupEquipment, "equipment", "", "available equipment")
	setupCmd.Flags().BoolVar(&setupGenerate, "generate", false, "generate a workout plan right away")
	_ = setupCmd.MarkFlagRequired("name")

	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(profileCmd)
}

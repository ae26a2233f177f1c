// ABOUTME: CLI commands for today's workout.
// ABOUTME: today prints exercises with progress; done toggles completion.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:         "today",
	Aliases:     []string{"t"},
	Short:       "Show today's workout",
	Annotations: gated(gatePlan),
	Long: `Show today's workout with a progress bar and each exercise's status.

The number in the first column can be passed to 'fitcoach done'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := ctrl.TodayWorkout()
		profile, _ := ctrl.RequireProfile()

		fmt.Printf("Welcome back, %s! ", profile.Name)
		if streak := ctrl.Streak(); streak > 0 {
			color.New(color.FgYellow).Printf("🔥 %d day streak", streak)
		}
		fmt.Println()
		fmt.Println()

		if day.IsRestDay {
			color.Cyan("%s is a Rest Day. Recover well!", day.Day)
			return nil
		}

		p := ctrl.TodayProgress()
		fmt.Printf("%s  %s %d/%d\n", color.New(color.Bold).Sprint(day.Day), progressBar(p.Percent(), 20), p.Completed, p.Total)
		if p.IsCompleted {
			color.Green("✓ Workout complete!")
		}
		fmt.Println()
		printExercises(day)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:         "done <exercise-id|number>",
	Aliases:     []string{"d", "toggle"},
	Short:       "Toggle an exercise as done for today",
	Annotations: gated(gatePlan),
	Long: `Toggle an exercise's completion for today.

Pass either the number shown by 'fitcoach today' or the exercise ID.
Running it again on the same exercise undoes it.

EXAMPLES:

  fitcoach done 1
  fitcoach done monday-0-1715170000123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := ctrl.TodayWorkout()
		id, err := resolveExercise(day, args[0])
		if err != nil {
			return err
		}

		_, done, err := ctrl.ToggleExerciseComplete(id)
		if err != nil {
			return fmt.Errorf("failed to toggle exercise: %w", err)
		}

		name := id
		if plan, err := ctrl.RequirePlan(); err == nil {
			if e, ok := plan.FindExercise(id); ok {
				name = e.Name
			}
		}
		if done {
			color.Green("✓ %s done", name)
		} else {
			color.Yellow("○ %s not done", name)
		}

		p := ctrl.TodayProgress()
		fmt.Printf("  %s %d/%d\n", progressBar(p.Percent(), 20), p.Completed, p.Total)
		return nil
	},
}

// resolveExercise maps a 1-based index in today's list, or an ID, to an ID.
func resolveExercise(day models.DailyWorkout, arg string) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(day.Exercises) {
			return "", fmt.Errorf("no exercise #%d today (have %d)", n, len(day.Exercises))
		}
		return day.Exercises[n-1].ID, nil
	}
	return arg, nil
}

func printExercises(day models.DailyWorkout) {
	faint := color.New(color.Faint)
	for i, e := range day.Exercises {
		mark := "○"
		name := e.Name
		if ctrl.IsCompletedToday(e.ID) {
			mark = color.GreenString("✓")
			name = faint.Sprint(e.Name)
		}
		fmt.Printf("%2d %s %s %s\n", i+1, mark, name, faint.Sprintf("%d×%s", e.Sets, e.Reps))
		if e.Description != "" {
			fmt.Printf("       %s\n", faint.Sprint(e.Description))
		}
	}
}

func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return color.GreenString(strings.Repeat("█", filled)) +
		color.New(color.Faint).Sprint(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(doneCmd)
}

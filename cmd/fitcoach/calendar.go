// ABOUTME: CLI commands for the month calendar and training stats.
// ABOUTME: Renders with lipgloss styles: day kinds, PR markers, and a weekly histogram.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/fitcoach/internal/progress"
	"github.com/spf13/cobra"
)

var (
	cellStyle      = lipgloss.NewStyle().Width(4).Align(lipgloss.Center)
	headStyle      = cellStyle.Faint(true)
	restStyle      = cellStyle.Faint(true)
	workoutStyle   = cellStyle.Foreground(lipgloss.Color("12"))
	completedStyle = cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	todayStyle     = cellStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Width(28).Align(lipgloss.Center)
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

var calendarCmd = &cobra.Command{
	Use:         "calendar [month] [year]",
	Aliases:     []string{"cal"},
	Short:       "Show a month of training",
	Annotations: gated(gatePlan),
	Long: `Show a month calendar of your training.

Completed workout days are green, planned workout days blue, rest days dim,
and today is highlighted. Days with a personal record are marked with *.

EXAMPLES:

  fitcoach calendar            # This month
  fitcoach calendar 3          # March of this year
  fitcoach calendar feb 2024   # February 2024`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := ctrl.Now()
		year, month := now.Year(), now.Month()

		if len(args) > 0 {
			m, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			month = m
		}
		if len(args) > 1 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1 {
				return fmt.Errorf("invalid year: %s", args[1])
			}
			year = y
		}

		fmt.Println(renderCalendar(year, month, ctrl.Calendar(year, month)))
		fmt.Printf("%s  🔥 %d day streak\n", legend(), ctrl.Streak())
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show streak, totals, and the last seven days",
	Annotations: gated(gateProfile),
	RunE: func(cmd *cobra.Command, args []string) error {
		totals := ctrl.Totals()
		fmt.Println(boxStyle.Render(fmt.Sprintf(
			"🔥 Streak            %d days\n🏋 Workouts logged   %d\n✓  Exercises done   %d\n🏆 Personal records %d",
			ctrl.Streak(), totals.WorkoutsCompleted, totals.ExercisesDone, len(ctrl.SortedPRs()),
		)))
		fmt.Println()
		fmt.Println(lipgloss.NewStyle().Bold(true).Render("Last 7 days"))
		fmt.Println(renderHistogram(ctrl.WeeklyActivity(), 24))
		return nil
	},
}

// parseMonth accepts 1-12 or an English month name or prefix.
func parseMonth(s string) (time.Month, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month: %s", s)
		}
		return time.Month(n), nil
	}
	s = strings.ToLower(s)
	if len(s) >= 3 {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), s) {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid month: %s", s)
}

func renderCalendar(year int, month time.Month, weeks [][]progress.DayStatus) string {
	rows := []string{titleStyle.Render(fmt.Sprintf("%s %d", month, year))}

	var head []string
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		head = append(head, headStyle.Render(d))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, head...))

	for _, week := range weeks {
		var cells []string
		for _, d := range week {
			cells = append(cells, renderDay(d))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderDay(d progress.DayStatus) string {
	if d.Date.IsZero() {
		return cellStyle.Render("")
	}
	label := strconv.Itoa(d.Date.Day())
	if d.HasPR {
		label += "*"
	}
	switch d.Kind {
	case progress.DayToday:
		return todayStyle.Render(label)
	case progress.DayCompleted:
		return completedStyle.Render(label)
	case progress.DayWorkout:
		return workoutStyle.Render(label)
	default:
		return restStyle.Render(label)
	}
}

func legend() string {
	return strings.Join([]string{
		completedStyle.UnsetWidth().Render("■ done"),
		workoutStyle.UnsetWidth().Render("■ planned"),
		restStyle.UnsetWidth().Render("■ rest"),
		faintStyle.Render("* PR"),
	}, "  ")
}

// renderHistogram draws one horizontal bar per day scaled to the busiest day.
func renderHistogram(days []progress.DayActivity, width int) string {
	peak := 0
	for _, d := range days {
		if d.Exercises > peak {
			peak = d.Exercises
		}
	}

	var lines []string
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = d.Exercises * width / peak
		}
		if d.Exercises > 0 && n == 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%s %s %d",
			faintStyle.Render(d.Label),
			barStyle.Render(strings.Repeat("█", n))+strings.Repeat(" ", width-n),
			d.Exercises))
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
}

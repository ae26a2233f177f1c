// ABOUTME: CLI commands for nutrition logging.
// ABOUTME: Logs meals from text or photos and shows daily macro totals.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitcoach/internal/app"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/spf13/cobra"
)

var foodHistoryDays int

var foodCmd = &cobra.Command{
	Use:         "food",
	Aliases:     []string{"f", "eat"},
	Short:       "Log meals and track macros",
	Annotations: gated(gateProfile),
	Long: `Log meals and track calories, protein, carbs, and fat.

Macros are estimates from the AI coach. Every logged item is added to
today's running totals.

EXAMPLES:

  fitcoach food log "chicken caesar salad and a coke"
  fitcoach food scan lunch.jpg
  fitcoach food today
  fitcoach food history --days 14`,
}

var foodLogCmd = &cobra.Command{
	Use:   "log <description>",
	Short: "Log food from a text description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, items, err := ctrl.LogFood(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return aiError(st, err)
		}
		printLogged(items)
		return nil
	},
}

var foodScanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Log food from one or more meal photos",
	Long: `Log food from meal photos. Several photos are analyzed in parallel and
logged together; if any photo fails, nothing is logged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images := make([]app.Image, 0, len(args))
		for _, path := range args {
			img, err := readImage(path)
			if err != nil {
				return err
			}
			images = append(images, img)
		}

		st, items, err := ctrl.LogFoodFromImages(cmd.Context(), images)
		if err != nil {
			return aiError(st, err)
		}
		printLogged(items)
		return nil
	},
}

var foodTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's food log",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := ctrl.TodayLog()
		if len(log.Items) == 0 {
			fmt.Println("Nothing logged today.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, item := range log.Items {
			fmt.Printf("  %s %s\n", padRight(item.Name, 28), faint.Sprint(formatMacros(item.Calories, item.Protein, item.Carbs, item.Fat)))
		}
		fmt.Println()
		printTotals(log.Totals)
		return nil
	},
}

var foodHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily totals for recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		history := ctrl.State().NutritionHistory
		if len(history) == 0 {
			fmt.Println("No food logged yet.")
			return nil
		}

		dates := make([]string, 0, len(history))
		for date := range history {
			dates = append(dates, date)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
		if foodHistoryDays > 0 && len(dates) > foodHistoryDays {
			dates = dates[:foodHistoryDays]
		}

		faint := color.New(color.Faint)
		for _, date := range dates {
			t := history.Log(date).Totals
			fmt.Printf("%s  %s\n", faint.Sprint(date), formatMacros(t.Calories, t.Protein, t.Carbs, t.Fat))
		}
		return nil
	},
}

func readImage(path string) (app.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return app.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return app.Image{}, fmt.Errorf("%s is not an image (%s)", filepath.Base(path), mime)
	}
	return app.Image{Data: data, MimeType: mime}, nil
}

func printLogged(items []models.FoodItem) {
	if len(items) == 0 {
		color.Yellow("No food items recognized.")
		return
	}
	color.Green("✓ Logged %d item(s)", len(items))
	faint := color.New(color.Faint)
	for _, item := range items {
		fmt.Printf("  %s %s\n", padRight(item.Name, 28), faint.Sprint(formatMacros(item.Calories, item.Protein, item.Carbs, item.Fat)))
	}
	fmt.Println()
	printTotals(ctrl.TodayLog().Totals)
}

func printTotals(t models.MacroTotals) {
	fmt.Printf("%s %s\n", color.New(color.Bold).Sprint("Today:"), formatMacros(t.Calories, t.Protein, t.Carbs, t.Fat))
}

func formatMacros(kcal int, protein, carbs, fat float64) string {
	return fmt.Sprintf("%d kcal  P %.0fg  C %.0fg  F %.0fg", kcal, protein, carbs, fat)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	foodHistoryCmd.Flags().IntVarP(&foodHistoryDays, "days", "n", 7, "number of days to show (0 for all)")

	foodCmd.AddCommand(foodLogCmd)
	foodCmd.AddCommand(foodScanCmd)
	foodCmd.AddCommand(foodTodayCmd)
	foodCmd.AddCommand(foodHistoryCmd)
	rootCmd.AddCommand(foodCmd)
}

// ABOUTME: Prompt templates sent to the model.
// ABOUTME: Plan, nutrition, and coach-persona instructions.
package coach

import (
	"fmt"
	"strings"

	"github.com/harperreed/fitcoach/internal/models"
)

// PlanPrompt builds the plan-generation instruction for a profile.
func PlanPrompt(p models.UserProfile) string {
	var b strings.Builder
	b.WriteString("You are an expert fitness coach. Create a personalized 7-day workout plan based on the following user profile.\n")
	b.WriteString("The plan should be well-structured and tailored to the user's goals and constraints.\n")
	b.WriteString("- Return exactly 7 days in order, Monday through Sunday.\n")
	b.WriteString("- IMPORTANT: Ensure all workout days are scheduled on weekdays (Monday to Friday), and weekends (Saturday, Sunday) are designated as Rest Days.\n")
	if p.Days < models.MaxDaysPerWeek {
		fmt.Fprintf(&b, "- The user trains %d days per week, so exactly %d weekdays must be Rest Days. Spread the workout days out.\n",
			p.Days, models.MaxDaysPerWeek-p.Days)
	}
	b.WriteString("- Rest days have an empty exercise list.\n")
	b.WriteString("- For each exercise, provide a concise name, the number of sets, a repetition range (e.g., '8-12 reps'), and a brief, helpful description or tip.\n")
	b.WriteString("- Ensure the exercise selection matches the available equipment.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Fitness Level: %s\n", p.Level)
	fmt.Fprintf(&b, "- Primary Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "- Workout Days Per Week: %d\n", p.Days)
	fmt.Fprintf(&b, "- Available Equipment: %s\n\n", p.Equipment)
	b.WriteString("Generate the plan now.")
	return b.String()
}

// NutritionPrompt builds the text-analysis instruction for a meal description.
func NutritionPrompt(query string) string {
	return fmt.Sprintf(`You are a nutritional database expert. Analyze the following text and break it down into individual food items.
For each item, provide a best-effort estimate of its nutritional content (calories, protein, carbs, fat).
If a quantity is not specified, assume a standard serving size.

Query: %q`, query)
}

// ImagePrompt is the instruction sent alongside a meal photo.
const ImagePrompt = "Analyze this image of a meal and provide a best-effort estimate of its nutritional content for each food item. If you cannot identify an item, omit it. Respond in the required JSON format."

// SystemInstruction is the coach persona for a profile.
func SystemInstruction(p models.UserProfile) string {
	return fmt.Sprintf("You are a friendly and encouraging AI fitness and nutrition coach named FitCoach. "+
		"The user's name is %s and their fitness profile is: Level: %s, Goal: %s. "+
		"Keep your answers concise, helpful, and positive.", p.Name, p.Level, p.Goal)
}

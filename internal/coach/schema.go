// ABOUTME: JSON schemas for structured model output and their validation.
// ABOUTME: Replies are checked against the schema before decoding into models.
package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/harperreed/fitcoach/internal/models"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

// PlanSchema describes the plan-generation reply.
func PlanSchema() *jsonschema.Schema {
	exercise := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":        {Type: "string", MinLength: intPtr(1)},
			"sets":        {Type: "integer", Minimum: floatPtr(1)},
			"reps":        {Type: "string", Description: "e.g., '8-12' or '30 seconds'"},
			"description": {Type: "string", Description: "A brief description or tip for the exercise."},
		},
		Required: []string{"name", "sets", "reps", "description"},
	}
	day := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"day":       {Type: "string", Description: "e.g., Monday, Tuesday", MinLength: intPtr(1)},
			"isRestDay": {Type: "boolean"},
			"exercises": {
				Type:        "array",
				Description: "List of exercises for the day. Empty if it's a rest day.",
				Items:       exercise,
			},
		},
		Required: []string{"day", "isRestDay", "exercises"},
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"weeklyPlan": {
				Type:        "array",
				Description: "A 7-day workout plan starting Monday. Each day is an object.",
				Items:       day,
				MinItems:    intPtr(models.DaysInPlan),
				MaxItems:    intPtr(models.DaysInPlan),
			},
		},
		Required: []string{"weeklyPlan"},
	}
}

// NutritionSchema describes a nutrition estimate reply. The item list is
// wrapped in an object because structured output requires an object root.
func NutritionSchema() *jsonschema.Schema {
	item := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":     {Type: "string", Description: "The name of the food item, e.g., '1 large apple' or '2 slices of whole wheat bread'.", MinLength: intPtr(1)},
			"calories": {Type: "integer"},
			"protein":  {Type: "number", Description: "in grams"},
			"carbs":    {Type: "number", Description: "in grams"},
			"fat":      {Type: "number", Description: "in grams"},
		},
		Required: []string{"name", "calories", "protein", "carbs", "fat"},
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"items": {Type: "array", Items: item},
		},
		Required: []string{"items"},
	}
}

var (
	resolveOnce      sync.Once
	planResolved     *jsonschema.Resolved
	nutritionResolve *jsonschema.Resolved
	resolveErr       error
)

func resolved() (*jsonschema.Resolved, *jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		planResolved, resolveErr = PlanSchema().Resolve(nil)
		if resolveErr != nil {
			return
		}
		nutritionResolve, resolveErr = NutritionSchema().Resolve(nil)
	})
	return planResolved, nutritionResolve, resolveErr
}

// validateJSON checks raw against a resolved schema and decodes it into out.
func validateJSON(rs *jsonschema.Resolved, raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty reply", ErrInvalidResponse)
	}

	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := rs.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// ParsePlan validates a plan reply against the schema and the seven-day
// shape. Every exercise list in the result is non-nil.
func ParsePlan(raw string) (*models.WorkoutPlan, error) {
	rs, _, err := resolved()
	if err != nil {
		return nil, fmt.Errorf("resolve plan schema: %w", err)
	}

	var plan models.WorkoutPlan
	if err := validateJSON(rs, raw, &plan); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i := range plan.WeeklyPlan {
		d := &plan.WeeklyPlan[i]
		if d.Exercises == nil {
			d.Exercises = []models.Exercise{}
		}
		if !d.IsRestDay && len(d.Exercises) == 0 {
			return nil, fmt.Errorf("%w: %s is a workout day with no exercises", ErrInvalidResponse, d.Day)
		}
	}
	return &plan, nil
}

// ParseFoodItems validates a nutrition reply.
func ParseFoodItems(raw string) ([]models.FoodItem, error) {
	_, rs, err := resolved()
	if err != nil {
		return nil, fmt.Errorf("resolve nutrition schema: %w", err)
	}

	var reply struct {
		Items []models.FoodItem `json:"items"`
	}
	if err := validateJSON(rs, raw, &reply); err != nil {
		return nil, err
	}
	if reply.Items == nil {
		reply.Items = []models.FoodItem{}
	}
	return reply.Items, nil
}

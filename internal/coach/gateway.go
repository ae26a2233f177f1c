// ABOUTME: AI gateway contract for plans, nutrition estimates, and coach chat.
// ABOUTME: Implementations must return validated domain values or typed errors.
package coach

import (
	"context"

	"github.com/harperreed/fitcoach/internal/models"
)

// Defaults for the OpenAI-compatible endpoint.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
)

// Gateway is the AI backend used by the application controller.
type Gateway interface {
	// GeneratePlan returns a validated seven-day plan with exercise IDs assigned.
	GeneratePlan(ctx context.Context, profile models.UserProfile) (*models.WorkoutPlan, error)
	// NutritionFromText splits a free-text meal description into estimated items.
	NutritionFromText(ctx context.Context, query string) ([]models.FoodItem, error)
	// NutritionFromImage estimates items from a photo of a meal.
	NutritionFromImage(ctx context.Context, image []byte, mimeType string) ([]models.FoodItem, error)
	// NewChat starts a coaching conversation seeded with prior turns.
	NewChat(profile models.UserProfile, history []models.ChatMessage) ChatSession
}

// ChatSession is a conversation that remembers its completed turns.
type ChatSession interface {
	Send(ctx context.Context, text string) (*Stream, error)
}

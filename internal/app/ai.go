// ABOUTME: Controller operations that call the AI gateway.
// ABOUTME: Plan generation, food logging, and streamed coach chat.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/harperreed/fitcoach/internal/coach"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/storage"
	"golang.org/x/sync/errgroup"
)

// MaxConcurrentImages bounds parallel image analysis requests.
const MaxConcurrentImages = 3

// Image is a meal photo to analyze.
type Image struct {
	Data     []byte
	MimeType string
}

// begin marks an AI call in flight and clears the last error.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gateway == nil {
		return ErrNoGateway
	}
	if c.state.Loading {
		return ErrBusy
	}
	c.state.Loading = true
	c.state.LastError = ""
	return nil
}

// fail records a user-facing error; callers hold mu.
func (c *Controller) fail(prefix string, err error) {
	c.state.LastError = prefix + " " + coach.UserMessage(err)
	c.logger.Error(prefix, "err", err)
}

// GeneratePlan asks the gateway for a new plan. On success the plan replaces
// the current one and workout history is cleared.
func (c *Controller) GeneratePlan(ctx context.Context, profile models.UserProfile) (State, error) {
	if err := c.begin(); err != nil {
		return c.State(), err
	}

	c.logger.Info("generating workout plan", "level", profile.Level, "goal", profile.Goal, "days", profile.Days)
	plan, err := c.gateway.GeneratePlan(ctx, profile)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err == nil {
		err = c.store.SavePlan(plan)
		if err == nil {
			if err = c.store.Remove(storage.KeyWorkoutHistory); err != nil {
				err = errors.Join(err, c.restorePlanLocked())
			}
		}
	}
	if err != nil {
		c.fail("Failed to generate workout plan.", err)
		return c.snapshot(), err
	}

	c.state.Plan = plan
	c.state.WorkoutHistory = models.WorkoutHistory{}
	return c.snapshot(), nil
}

// restorePlanLocked writes the in-memory plan back over a partially applied
// new one; callers hold mu.
func (c *Controller) restorePlanLocked() error {
	if c.state.Plan == nil {
		return c.store.Remove(storage.KeyPlan)
	}
	return c.store.SavePlan(c.state.Plan)
}

// LogFood estimates a free-text meal and appends it to today's log.
func (c *Controller) LogFood(ctx context.Context, query string) (State, []models.FoodItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.State(), nil, errors.New("food description is empty")
	}
	if err := c.begin(); err != nil {
		return c.State(), nil, err
	}

	items, err := c.gateway.NutritionFromText(ctx, query)
	return c.finishFood("Could not log food.", items, err)
}

// LogFoodFromImage estimates a meal photo and appends it to today's log.
func (c *Controller) LogFoodFromImage(ctx context.Context, image []byte, mimeType string) (State, []models.FoodItem, error) {
	if err := c.begin(); err != nil {
		return c.State(), nil, err
	}

	items, err := c.gateway.NutritionFromImage(ctx, image, mimeType)
	return c.finishFood("Could not log food from image.", items, err)
}

// LogFoodFromImages analyzes several photos concurrently and appends every
// estimate in input order. Nothing is logged unless all succeed.
func (c *Controller) LogFoodFromImages(ctx context.Context, images []Image) (State, []models.FoodItem, error) {
	if len(images) == 0 {
		return c.State(), nil, errors.New("no images given")
	}
	if err := c.begin(); err != nil {
		return c.State(), nil, err
	}

	results := make([][]models.FoodItem, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentImages)
	for i, img := range images {
		g.Go(func() error {
			items, err := c.gateway.NutritionFromImage(gctx, img.Data, img.MimeType)
			if err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}
			results[i] = items
			return nil
		})
	}
	err := g.Wait()

	var all []models.FoodItem
	for _, items := range results {
		all = append(all, items...)
	}
	return c.finishFood("Could not log food from image.", all, err)
}

func (c *Controller) finishFood(prefix string, items []models.FoodItem, err error) (State, []models.FoodItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err != nil {
		c.fail(prefix, err)
		return c.snapshot(), nil, err
	}

	history := c.state.NutritionHistory.Clone()
	history.Append(c.todayKey(), items...)
	if err := c.store.SaveNutritionHistory(history); err != nil {
		c.fail(prefix, err)
		return c.snapshot(), nil, fmt.Errorf("save nutrition history: %w", err)
	}
	c.state.NutritionHistory = history
	c.logger.Debug("food logged", "items", len(items))
	return c.snapshot(), items, nil
}

// SendMessageToCoach streams the coach's reply to text. onPartial receives the
// growing reply after every chunk. A failed turn is not an error: the apology
// becomes the coach's reply and LastError describes the failure. Only a
// failure to persist the conversation is returned.
func (c *Controller) SendMessageToCoach(ctx context.Context, text string, onPartial func(string)) (State, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return c.State(), errors.New("message is empty")
	}

	c.mu.Lock()
	if c.chat == nil {
		c.state.LastError = "Chat not initialized. Run 'fitcoach setup' first."
		s := c.snapshot()
		c.mu.Unlock()
		return s, ErrChatNotInitialized
	}
	if c.state.Loading {
		s := c.snapshot()
		c.mu.Unlock()
		return s, ErrBusy
	}
	c.state.Loading = true
	c.state.LastError = ""
	session, sessionID := c.chat, c.sessionID
	prev := c.state.ChatHistory
	c.state.ChatHistory = append(slices.Clone(prev), models.NewChatMessage(models.RoleUser, text))
	c.mu.Unlock()

	reply, err := c.streamReply(ctx, session, text, onPartial)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err != nil {
		c.fail("Coach reply failed.", err)
		reply = ApologyText
	}
	history := append(slices.Clone(c.state.ChatHistory), models.NewChatMessage(models.RoleModel, reply))
	if serr := c.store.SaveChatHistory(history); serr != nil {
		c.state.ChatHistory = prev
		c.logger.Error("save chat history failed", "session", sessionID, "err", serr)
		return c.snapshot(), fmt.Errorf("save chat history: %w", serr)
	}
	c.state.ChatHistory = history
	c.logger.Info("coach turn", "session", sessionID, "failed", err != nil, "reply_chars", len(reply))
	return c.snapshot(), nil
}

func (c *Controller) streamReply(ctx context.Context, session coach.ChatSession, text string, onPartial func(string)) (string, error) {
	stream, err := session.Send(ctx, text)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	for stream.Next() {
		if onPartial != nil {
			onPartial(stream.Text())
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return stream.Text(), nil
}

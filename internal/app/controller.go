// ABOUTME: Application state controller owning profile, plan, history, and chat.
// ABOUTME: Mutations update memory and persist synchronously, then return a snapshot.
package app

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/fitcoach/internal/coach"
	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/storage"
	"github.com/juju/clock"
)

var (
	// ErrBusy is returned when an AI request is already in flight.
	ErrBusy = errors.New("another AI request is already in progress")
	// ErrNoProfile is returned by operations that need a signed-in user.
	ErrNoProfile = errors.New("no profile: run 'fitcoach setup' first")
	// ErrNoPlan is returned by operations that need a workout plan.
	ErrNoPlan = errors.New("no workout plan: run 'fitcoach plan generate' first")
	// ErrNoGateway is returned when no AI backend is configured.
	ErrNoGateway = errors.New("AI coach is not configured: set OPENAI_API_KEY")
	// ErrChatNotInitialized is returned when chatting without a profile.
	ErrChatNotInitialized = errors.New("Chat not initialized")
	// ErrUnknownExercise is returned when toggling an ID absent from the plan.
	ErrUnknownExercise = errors.New("exercise not found in plan")
)

// ApologyText is recorded as the coach's reply when a chat turn fails.
const ApologyText = "Sorry, I encountered an error. Please try again."

// State is a snapshot of everything the controller holds.
type State struct {
	Profile          *models.UserProfile
	Plan             *models.WorkoutPlan
	WorkoutHistory   models.WorkoutHistory
	NutritionHistory models.NutritionHistory
	ChatHistory      []models.ChatMessage
	PersonalRecords  []models.PersonalRecord
	Loading          bool
	LastError        string
}

// Controller coordinates the store, the AI gateway, and derived views.
type Controller struct {
	mu        sync.Mutex
	state     State
	store     *storage.Store
	gateway   coach.Gateway
	clock     clock.Clock
	logger    *log.Logger
	chat      coach.ChatSession
	sessionID string
}

// Option configures a Controller.
type Option func(*Controller)

// WithGateway sets the AI backend. Without one, AI operations fail with ErrNoGateway.
func WithGateway(g coach.Gateway) Option {
	return func(c *Controller) { c.gateway = g }
}

// WithClock overrides the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithLogger sets the structured logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller over store. Call Load before use.
func New(store *storage.Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		clock: clock.WallClock,
		state: emptyState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

func emptyState() State {
	return State{
		WorkoutHistory:   models.WorkoutHistory{},
		NutritionHistory: models.NutritionHistory{},
		ChatHistory:      []models.ChatMessage{},
		PersonalRecords:  []models.PersonalRecord{},
	}
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

func (c *Controller) todayKey() string {
	return models.DateKey(c.clock.Now())
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot copies state; callers hold mu.
func (c *Controller) snapshot() State {
	s := c.state
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	s.WorkoutHistory = s.WorkoutHistory.Clone()
	s.NutritionHistory = s.NutritionHistory.Clone()
	s.ChatHistory = slices.Clone(s.ChatHistory)
	s.PersonalRecords = slices.Clone(s.PersonalRecords)
	return s
}

// Load reads every record from the store. Corrupt records are logged and
// replaced by empty defaults.
func (c *Controller) Load() (State, error) {
	snap, corruptions, err := c.store.LoadReport()
	if err != nil {
		return State{}, fmt.Errorf("load store: %w", err)
	}
	for _, cr := range corruptions {
		c.logger.Warn("discarding corrupt record", "key", cr.Key, "err", cr.Err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{
		Profile:          snap.Profile,
		Plan:             snap.Plan,
		WorkoutHistory:   snap.WorkoutHistory,
		NutritionHistory: snap.NutritionHistory,
		ChatHistory:      snap.ChatHistory,
		PersonalRecords:  snap.PersonalRecords,
	}
	c.resetChatLocked()
	c.logger.Debug("state loaded",
		"profile", snap.Profile != nil,
		"plan", snap.Plan != nil,
		"history_days", len(snap.WorkoutHistory),
		"chat_messages", len(snap.ChatHistory))
	return c.snapshot(), nil
}

// resetChatLocked recreates the chat session from the current profile and
// conversation; callers hold mu.
func (c *Controller) resetChatLocked() {
	c.chat = nil
	c.sessionID = ""
	if c.state.Profile == nil || c.gateway == nil {
		return
	}
	c.chat = c.gateway.NewChat(*c.state.Profile, slices.Clone(c.state.ChatHistory))
	c.sessionID = uuid.NewString()
	c.logger.Debug("chat session started", "session", c.sessionID)
}

// SessionID identifies the current chat session, empty when none exists.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Login validates and stores the profile, then starts a new chat session.
func (c *Controller) Login(profile models.UserProfile) (State, error) {
	if err := profile.Validate(); err != nil {
		return c.State(), fmt.Errorf("invalid profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SaveProfile(&profile); err != nil {
		return c.snapshot(), fmt.Errorf("save profile: %w", err)
	}
	c.state.Profile = &profile
	c.resetChatLocked()
	c.logger.Info("profile saved", "name", profile.Name, "level", profile.Level, "goal", profile.Goal)
	return c.snapshot(), nil
}

// SetPlan replaces the plan. A nil plan removes it.
func (c *Controller) SetPlan(plan *models.WorkoutPlan) (State, error) {
	if plan != nil {
		if err := plan.Validate(); err != nil {
			return c.State(), fmt.Errorf("invalid plan: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SavePlan(plan); err != nil {
		return c.snapshot(), fmt.Errorf("save plan: %w", err)
	}
	c.state.Plan = plan
	return c.snapshot(), nil
}

// ResetAll clears all state and every stored record.
func (c *Controller) ResetAll() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Clear(); err != nil {
		return c.snapshot(), fmt.Errorf("clear store: %w", err)
	}
	c.state = emptyState()
	c.resetChatLocked()
	c.logger.Info("all data reset")
	return c.snapshot(), nil
}

// ToggleExerciseComplete flips today's completion flag for an exercise and
// returns the new value.
func (c *Controller) ToggleExerciseComplete(exerciseID string) (State, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Plan == nil {
		return c.snapshot(), false, ErrNoPlan
	}
	if _, ok := c.state.Plan.FindExercise(exerciseID); !ok {
		return c.snapshot(), false, fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
	}

	history := c.state.WorkoutHistory.Clone()
	done := history.Toggle(c.todayKey(), exerciseID)
	if err := c.store.SaveWorkoutHistory(history); err != nil {
		return c.snapshot(), false, fmt.Errorf("save workout history: %w", err)
	}
	c.state.WorkoutHistory = history
	return c.snapshot(), done, nil
}

// AddPR records a new personal best dated today.
func (c *Controller) AddPR(exerciseName string, weight float64, reps int) (State, models.PersonalRecord, error) {
	var errs []error
	if exerciseName == "" {
		errs = append(errs, errors.New("exercise name is required"))
	}
	if weight <= 0 {
		errs = append(errs, errors.New("weight must be greater than zero"))
	}
	if reps <= 0 {
		errs = append(errs, errors.New("reps must be greater than zero"))
	}
	if len(errs) > 0 {
		return c.State(), models.PersonalRecord{}, errors.Join(errs...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pr := models.NewPersonalRecord(exerciseName, weight, reps, c.clock.Now())
	prs := append(slices.Clone(c.state.PersonalRecords), pr)
	if err := c.store.SavePersonalRecords(prs); err != nil {
		return c.snapshot(), models.PersonalRecord{}, fmt.Errorf("save personal records: %w", err)
	}
	c.state.PersonalRecords = prs
	return c.snapshot(), pr, nil
}

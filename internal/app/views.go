// ABOUTME: Derived read-only views over controller state.
// ABOUTME: Thin wrappers around the progress aggregators using the controller clock.
package app

import (
	"time"

	"github.com/harperreed/fitcoach/internal/models"
	"github.com/harperreed/fitcoach/internal/progress"
)

// RequireProfile returns ErrNoProfile when no user is signed in.
func (c *Controller) RequireProfile() (models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Profile == nil {
		return models.UserProfile{}, ErrNoProfile
	}
	return *c.state.Profile, nil
}

// RequirePlan returns ErrNoPlan when no plan exists.
func (c *Controller) RequirePlan() (*models.WorkoutPlan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Plan == nil {
		return nil, ErrNoPlan
	}
	return c.state.Plan, nil
}

// Streak is the current consecutive-day workout streak.
func (c *Controller) Streak() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress.Streak(c.state.WorkoutHistory, c.clock.Now())
}

// WeeklyActivity is the seven-day exercise histogram ending today.
func (c *Controller) WeeklyActivity() []progress.DayActivity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress.WeeklyActivity(c.state.WorkoutHistory, c.clock.Now())
}

// TodayWorkout returns today's plan day.
func (c *Controller) TodayWorkout() (models.DailyWorkout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Plan.Day(progress.PlanDayIndex(c.clock.Now()))
}

// TodayProgress is today's completion against the plan.
func (c *Controller) TodayProgress() progress.Completion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress.TodayProgress(c.state.Plan, c.state.WorkoutHistory, c.clock.Now())
}

// IsCompletedToday reports whether an exercise is checked off today.
func (c *Controller) IsCompletedToday(exerciseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.WorkoutHistory.IsCompleted(c.todayKey(), exerciseID)
}

// TodayLog is today's food log, empty if nothing was logged.
func (c *Controller) TodayLog() models.DailyFoodLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.NutritionHistory.Log(c.todayKey())
}

// SortedPRs returns personal records most recent first.
func (c *Controller) SortedPRs() []models.PersonalRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.SortRecords(c.state.PersonalRecords)
}

// Totals returns lifetime workout counts.
func (c *Controller) Totals() progress.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress.Totals(c.state.WorkoutHistory)
}

// Calendar classifies every day of a month.
func (c *Controller) Calendar(year int, month time.Month) [][]progress.DayStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress.Month(c.state.Plan, c.state.WorkoutHistory, c.state.PersonalRecords, year, month, c.clock.Now())
}

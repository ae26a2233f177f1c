// ABOUTME: Pure aggregations over plans, workout history, and records.
// ABOUTME: Completion ratios, streaks, weekly histogram, and lifetime totals.
package progress

import (
	"sort"
	"time"

	"github.com/harperreed/fitcoach/internal/models"
)

// PlanDayIndex maps a date to its plan index, Monday = 0 through Sunday = 6.
func PlanDayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// Completion is the exercise completion state of a single day.
type Completion struct {
	Completed   int
	Total       int
	IsCompleted bool
}

// Percent returns completion as 0-100, or 0 when the day has no exercises.
func (c Completion) Percent() int {
	if c.Total == 0 {
		return 0
	}
	p := c.Completed * 100 / c.Total
	if p > 100 {
		p = 100
	}
	return p
}

// DailyCompletion counts completed exercises on t against that weekday's plan.
func DailyCompletion(plan *models.WorkoutPlan, history models.WorkoutHistory, t time.Time) Completion {
	c := Completion{Completed: history.CompletedCount(models.DateKey(t))}
	if day, ok := plan.Day(PlanDayIndex(t)); ok {
		c.Total = len(day.Exercises)
	}
	c.IsCompleted = c.Total > 0 && c.Completed >= c.Total
	return c
}

// TodayProgress is DailyCompletion for today.
func TodayProgress(plan *models.WorkoutPlan, history models.WorkoutHistory, today time.Time) Completion {
	return DailyCompletion(plan, history, today)
}

// Streak counts consecutive days with at least one completed exercise,
// ending today or yesterday.
func Streak(history models.WorkoutHistory, today time.Time) int {
	var dates []string
	for date, day := range history {
		for _, done := range day {
			if done {
				dates = append(dates, date)
				break
			}
		}
	}
	if len(dates) == 0 {
		return 0
	}
	// ISO keys sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	todayKey := models.DateKey(today)
	yesterdayKey := models.DateKey(today.AddDate(0, 0, -1))
	if dates[0] != todayKey && dates[0] != yesterdayKey {
		return 0
	}

	last, err := models.ParseDateKey(dates[0], today.Location())
	if err != nil {
		return 0
	}
	streak := 1
	for _, key := range dates[1:] {
		if models.DateKey(last.AddDate(0, 0, -1)) != key {
			break
		}
		streak++
		last = last.AddDate(0, 0, -1)
	}
	return streak
}

// DayActivity is one bar of the weekly histogram.
type DayActivity struct {
	Date      string
	Label     string
	Exercises int
}

// WeeklyActivity returns seven buckets from six days ago through today.
func WeeklyActivity(history models.WorkoutHistory, today time.Time) []DayActivity {
	out := make([]DayActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := models.DateKey(d)
		out = append(out, DayActivity{
			Date:      key,
			Label:     d.Weekday().String()[:3],
			Exercises: history.CompletedCount(key),
		})
	}
	return out
}

// Summary holds lifetime totals.
type Summary struct {
	WorkoutsCompleted int
	ExercisesDone     int
}

// Totals counts recorded days and completed exercises across all history.
func Totals(history models.WorkoutHistory) Summary {
	s := Summary{WorkoutsCompleted: len(history)}
	for date := range history {
		s.ExercisesDone += history.CompletedCount(date)
	}
	return s
}

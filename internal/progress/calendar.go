// ABOUTME: Calendar month layout and per-day classification.
// ABOUTME: Rows are Sunday-first weeks; days are today, completed, workout, or rest.
package progress

import (
	"time"

	"github.com/harperreed/fitcoach/internal/models"
)

// DayKind is how a calendar day is rendered.
type DayKind int

const (
	DayRest DayKind = iota
	DayWorkout
	DayCompleted
	DayToday
)

func (k DayKind) String() string {
	switch k {
	case DayToday:
		return "today"
	case DayCompleted:
		return "completed"
	case DayWorkout:
		return "workout"
	default:
		return "rest"
	}
}

// DayStatus is the classification of one calendar date.
type DayStatus struct {
	Date      time.Time
	Kind      DayKind
	Completed bool
	HasPR     bool
}

// ClassifyDay decides how date is shown. Today wins over completion, which
// wins over the plan's workout or rest designation.
func ClassifyDay(plan *models.WorkoutPlan, history models.WorkoutHistory, prDates map[string]bool, date, today time.Time) DayStatus {
	key := models.DateKey(date)
	day, ok := plan.Day(PlanDayIndex(date))
	isWorkout := ok && !day.IsRestDay

	c := DailyCompletion(plan, history, date)
	st := DayStatus{
		Date:      date,
		Completed: isWorkout && c.IsCompleted,
		HasPR:     prDates[key],
	}

	switch {
	case key == models.DateKey(today):
		st.Kind = DayToday
	case st.Completed:
		st.Kind = DayCompleted
	case isWorkout:
		st.Kind = DayWorkout
	default:
		st.Kind = DayRest
	}
	return st
}

// MonthGrid returns the weeks of a month as Sunday-first rows. Cells outside
// the month are the zero time.
func MonthGrid(year int, month time.Month, loc *time.Location) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysIn := first.AddDate(0, 1, -1).Day()

	var weeks [][]time.Time
	week := make([]time.Time, 7)
	col := int(first.Weekday())
	for d := 1; d <= daysIn; d++ {
		week[col] = time.Date(year, month, d, 0, 0, 0, 0, loc)
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Month classifies every day of a month, laid out as MonthGrid.
// Cells outside the month have a zero Date.
func Month(plan *models.WorkoutPlan, history models.WorkoutHistory, records []models.PersonalRecord, year int, month time.Month, today time.Time) [][]DayStatus {
	prDates := models.RecordDates(records)
	grid := MonthGrid(year, month, today.Location())
	out := make([][]DayStatus, len(grid))
	for i, week := range grid {
		out[i] = make([]DayStatus, 7)
		for j, d := range week {
			if d.IsZero() {
				continue
			}
			out[i][j] = ClassifyDay(plan, history, prDates, d, today)
		}
	}
	return out
}
